package script

import "io"

// monitoringScript tracks optimization effectiveness over time. It has
// no plan-specific content, so operators can drop it straight into cron.
const monitoringScript = `#!/bin/bash
# HDFS Cost Monitoring Script
# Run this script regularly to track optimization effectiveness

LOG_FILE="/var/log/hdfs_monitoring_$(date +%Y%m%d).log"
REPORT_FILE="/var/log/hdfs_cost_report_$(date +%Y%m%d).json"

# Colors
GREEN='\033[0;32m'
YELLOW='\033[1;33m'
RED='\033[0;31m'
NC='\033[0m'

log() {
    local level=$1
    shift
    local message="$*"
    local timestamp=$(date '+%Y-%m-%d %H:%M:%S')

    case $level in
        ERROR)
            echo -e "${RED}[$timestamp] ERROR: $message${NC}" | tee -a "$LOG_FILE"
            ;;
        WARN)
            echo -e "${YELLOW}[$timestamp] WARN: $message${NC}" | tee -a "$LOG_FILE"
            ;;
        INFO)
            echo -e "${GREEN}[$timestamp] INFO: $message${NC}" | tee -a "$LOG_FILE"
            ;;
    esac
}

# Function to get cluster metrics
get_cluster_metrics() {
    local report=$(hdfs dfsadmin -report)

    local total_capacity=$(echo "$report" | grep "Configured Capacity:" | awk '{print $3}')
    local used_capacity=$(echo "$report" | grep "DFS Used:" | awk '{print $3}')
    local remaining_capacity=$(echo "$report" | grep "DFS Remaining:" | awk '{print $3}')

    echo "{"
    echo "  \"cluster_metrics\": {"
    echo "    \"total_capacity\": \"$total_capacity\","
    echo "    \"used_capacity\": \"$used_capacity\","
    echo "    \"remaining_capacity\": \"$remaining_capacity\","
    echo "    \"timestamp\": \"$(date -u +%Y-%m-%dT%H:%M:%SZ)\""
    echo "  },"
}

# Function to analyze file distribution
analyze_file_distribution() {
    log INFO "Analyzing file distribution..."

    local total_files=$(hdfs dfs -count -h / | awk '{print $2}')
    local total_size=$(hdfs dfs -du -s -h / | awk '{print $1}')

    # Count small files (< 64MB)
    local small_files=$(hdfs dfs -find / -type f -exec hdfs dfs -stat %b {} \; | awk '$1 < 67108864' | wc -l)

    echo "  \"file_distribution\": {"
    echo "    \"total_files\": $total_files,"
    echo "    \"total_size\": \"$total_size\","
    echo "    \"small_files_count\": $small_files,"
    echo "    \"small_files_percentage\": $(echo "scale=2; $small_files * 100 / $total_files" | bc -l)"
    echo "  },"
}

# Function to analyze storage policies
analyze_storage_policies() {
    log INFO "Analyzing storage policies..."

    local hot_files=$(hdfs dfs -find / -type f -exec hdfs storagepolicies -getStoragePolicy -path {} \; | grep -c "HOT" || echo 0)
    local cold_files=$(hdfs dfs -find / -type f -exec hdfs storagepolicies -getStoragePolicy -path {} \; | grep -c "COLD" || echo 0)
    local warm_files=$(hdfs dfs -find / -type f -exec hdfs storagepolicies -getStoragePolicy -path {} \; | grep -c "WARM" || echo 0)

    echo "  \"storage_policies\": {"
    echo "    \"hot_files\": $hot_files,"
    echo "    \"cold_files\": $cold_files,"
    echo "    \"warm_files\": $warm_files"
    echo "  },"
}

# Function to analyze replication
analyze_replication() {
    log INFO "Analyzing replication factors..."

    local avg_replication=$(hdfs fsck / -files -blocks -replication | grep "Average block replication" | awk '{print $4}')
    local over_replicated=$(hdfs fsck / -files -blocks -replication | grep "Over-replicated" | wc -l)
    local under_replicated=$(hdfs fsck / -files -blocks -replication | grep "Under-replicated" | wc -l)

    echo "  \"replication_analysis\": {"
    echo "    \"average_replication\": \"$avg_replication\","
    echo "    \"over_replicated_blocks\": $over_replicated,"
    echo "    \"under_replicated_blocks\": $under_replicated"
    echo "  },"
}

# Function to calculate cost estimates
calculate_cost_estimates() {
    log INFO "Calculating cost estimates..."

    local total_gb=$(hdfs dfs -du -s / | awk '{print $1 / 1024 / 1024 / 1024}')
    local estimated_monthly_cost=$(echo "scale=2; $total_gb * 0.04 * 3" | bc -l)
    local estimated_annual_cost=$(echo "scale=2; $estimated_monthly_cost * 12" | bc -l)

    echo "  \"cost_estimates\": {"
    echo "    \"total_storage_gb\": $total_gb,"
    echo "    \"estimated_monthly_cost\": $estimated_monthly_cost,"
    echo "    \"estimated_annual_cost\": $estimated_annual_cost"
    echo "  }"
}

# Main monitoring execution
main() {
    log INFO "Starting HDFS cost monitoring..."

    # Generate JSON report
    {
        get_cluster_metrics
        analyze_file_distribution
        analyze_storage_policies
        analyze_replication
        calculate_cost_estimates
        echo "}"
    } > "$REPORT_FILE"

    log INFO "Monitoring report generated: $REPORT_FILE"

    # Display summary
    echo
    echo "========================================"
    echo "HDFS COST MONITORING SUMMARY"
    echo "========================================"
    cat "$REPORT_FILE" | python3 -m json.tool 2>/dev/null || cat "$REPORT_FILE"
    echo "========================================"
    echo "Report saved to: $REPORT_FILE"
    echo "Log file: $LOG_FILE"
    echo "========================================"
}

# Run main function
main "$@"
`

// RenderMonitoring writes the monitoring script.
func RenderMonitoring(w io.Writer) error {
	_, err := io.WriteString(w, monitoringScript)
	return err
}
