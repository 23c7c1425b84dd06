package script

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/engine/advisor"
	"github.com/DrSkyle/hdfslash/pkg/engine/plan"
)

// optimizationPrologue is the fixed scaffold every remediation script
// starts with: logging, an HDFS reachability check, a metadata backup,
// and a dry-run aware command runner. DRY_RUN=true previews every step.
const optimizationPrologue = `set -e  # Exit on error
set -u  # Exit on undefined variable

# Configuration
LOG_FILE="/var/log/hdfs_optimization_$(date +%Y%m%d_%H%M%S).log"
BACKUP_DIR="/tmp/hdfs_backup_$(date +%Y%m%d_%H%M%S)"
DRY_RUN=${DRY_RUN:-false}

# Colors for output
RED='\033[0;31m'
GREEN='\033[0;32m'
YELLOW='\033[1;33m'
NC='\033[0m' # No Color

# Logging function
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
        *)
            echo "[$timestamp] $message" | tee -a "$LOG_FILE"
            ;;
    esac
}

# Function to check if HDFS is accessible
check_hdfs_access() {
    log INFO "Checking HDFS access..."
    if ! hdfs dfs -test -d /; then
        log ERROR "Cannot access HDFS. Please check your configuration."
        exit 1
    fi
    log INFO "HDFS access confirmed"
}

# Function to create backup
create_backup() {
    log INFO "Creating backup directory: $BACKUP_DIR"
    mkdir -p "$BACKUP_DIR"

    # Create metadata backup
    hdfs dfsadmin -report > "$BACKUP_DIR/cluster_report_before.txt"
    hdfs fsck / -files -blocks > "$BACKUP_DIR/fsck_before.txt"

    log INFO "Backup created successfully"
}

# Function to execute command with dry-run support
execute_command() {
    local cmd="$1"
    local description="$2"

    log INFO "Executing: $description"

    if [ "$DRY_RUN" = "true" ]; then
        log INFO "[DRY RUN] Would execute: $cmd"
    else
        log INFO "Running: $cmd"
        eval "$cmd" || {
            log ERROR "Command failed: $cmd"
            return 1
        }
    fi
}
`

const postTasks = `# Run HDFS balancer
log INFO "Starting HDFS balancer..."
execute_command "hdfs balancer -threshold 5" \
    "Run HDFS balancer"

# Generate post-optimization report
log INFO "Generating post-optimization report..."
hdfs dfsadmin -report > "$BACKUP_DIR/cluster_report_after.txt"
hdfs fsck / -files -blocks > "$BACKUP_DIR/fsck_after.txt"

# Calculate actual savings
log INFO "Calculating storage savings..."
BEFORE_USED=$(grep "DFS Used:" "$BACKUP_DIR/cluster_report_before.txt" | awk '{print $3}')
AFTER_USED=$(grep "DFS Used:" "$BACKUP_DIR/cluster_report_after.txt" | awk '{print $3}')

log INFO "Storage before optimization: $BEFORE_USED"
log INFO "Storage after optimization: $AFTER_USED"
`

// RenderOptimization writes the full remediation script for a plan. Only
// categories with concrete actions produce sections; anything else still
// shows up in the closing summary.
func RenderOptimization(w io.Writer, p *plan.Plan, generatedAt time.Time) error {
	var b bytes.Buffer

	fmt.Fprintf(&b, "#!/bin/bash\n# HDFS Cost Optimization Script\n")
	fmt.Fprintf(&b, "# Generated: %s\n", generatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "# Optimization Plan ID: %s\n", commentSafe(p.PlanID))
	fmt.Fprintf(&b, "# Total Estimated Savings: $%.2f/month\n\n", p.TotalMonthlySavings)

	b.WriteString(optimizationPrologue)

	fmt.Fprintf(&b, "\n# Main execution starts here\n")
	fmt.Fprintf(&b, "log INFO \"Starting HDFS cost optimization...\"\n")
	fmt.Fprintf(&b, "log INFO \"Optimization plan: %s\"\n", dqEscape(p.PlanID))
	fmt.Fprintf(&b, "log INFO \"Estimated monthly savings: \\$%.2f\"\n\n", p.TotalMonthlySavings)
	fmt.Fprintf(&b, "# Check prerequisites\ncheck_hdfs_access\ncreate_backup\n")

	for _, opt := range p.Optimizations {
		switch opt.Category {
		case advisor.CategoryColdData:
			b.WriteString("\n")
			renderColdData(&b, opt)
		case advisor.CategorySmallFiles:
			b.WriteString("\n")
			renderSmallFiles(&b, opt)
		case advisor.CategoryReplication:
			b.WriteString("\n")
			renderReplication(&b, opt)
		case advisor.CategoryCleanup:
			b.WriteString("\n")
			renderCleanup(&b, opt)
		case advisor.CategoryCompression:
			b.WriteString("\n")
			renderCompression(&b, opt)
		}
	}

	renderClosing(&b, p)

	_, err := w.Write(b.Bytes())
	return err
}

func renderColdData(b *bytes.Buffer, opt plan.Optimization) {
	banner(b, "Cold Data Optimization")
	fmt.Fprintf(b, "log INFO \"Starting cold data optimization...\"\n")
	fmt.Fprintf(b, "log INFO \"Files to process: %d\"\n\n", len(opt.Files))

	quoted := make([]string, 0, len(opt.Files))
	for _, f := range opt.Files {
		quoted = append(quoted, quotePath(f.Path))

		fmt.Fprintf(b, "# Processing: %s\n", commentSafe(f.Path))
		fmt.Fprintf(b, "log INFO \"Moving %s to cold storage (%.2fGB)\"\n\n", dqEscape(f.Path), f.SizeGB)

		b.WriteString("# Set cold storage policy\n")
		execCmd(b, fmt.Sprintf("hdfs storagepolicies -setStoragePolicy -path %s -policy COLD", quotePath(f.Path)),
			"Set cold storage policy for "+dqEscape(f.Path))

		b.WriteString("\n# Reduce replication factor\n")
		execCmd(b, fmt.Sprintf("hdfs dfs -setrep 1 %s", quotePath(f.Path)),
			"Reduce replication for "+dqEscape(f.Path))

		b.WriteString("\n# Verify storage policy\n")
		fmt.Fprintf(b, "if [ \"$DRY_RUN\" = \"false\" ]; then\n")
		fmt.Fprintf(b, "    POLICY=$(hdfs storagepolicies -getStoragePolicy -path %s | grep -o 'COLD\\|HOT\\|WARM')\n", quotePath(f.Path))
		fmt.Fprintf(b, "    log INFO \"Storage policy for %s: $POLICY\"\nfi\n\n", dqEscape(f.Path))
	}

	if len(quoted) > 0 {
		// Policies only tag the files. The mover relocates blocks.
		b.WriteString("# Relocate blocks onto the cold storage tier\n")
		execCmd(b, "hdfs mover -p "+strings.Join(quoted, " "), "Run HDFS mover over migrated paths")
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "log INFO \"Cold data optimization completed\"\n")
}

func renderSmallFiles(b *bytes.Buffer, opt plan.Optimization) {
	banner(b, "Small Files Consolidation")
	fmt.Fprintf(b, "log INFO \"Starting small files consolidation...\"\n")
	fmt.Fprintf(b, "log INFO \"Directories to process: %d\"\n\n", len(opt.Directories))

	for _, d := range opt.Directories {
		fmt.Fprintf(b, "# Processing directory: %s\n", commentSafe(d.Path))
		fmt.Fprintf(b, "log INFO \"Consolidating small files in %s\"\n\n", dqEscape(d.Path))

		fmt.Fprintf(b, "TEMP_FILE=\"/tmp/consolidated_$(basename %s)_$(date +%%Y%%m%%d_%%H%%M%%S)\"\n", quotePath(d.Path))
		fmt.Fprintf(b, "CONSOLIDATED_PATH=\"%s/consolidated_$(date +%%Y%%m%%d_%%H%%M%%S)\"\n\n", dqEscape(d.Path))

		b.WriteString("# Create consolidated file\n")
		execCmd(b, fmt.Sprintf("hdfs dfs -getmerge %s '$TEMP_FILE'", quotePath(d.Path)),
			"Merge small files from "+dqEscape(d.Path))

		b.WriteString("\n# Upload consolidated file\n")
		execCmd(b, "hdfs dfs -put '$TEMP_FILE' '$CONSOLIDATED_PATH'",
			"Upload consolidated file to $CONSOLIDATED_PATH")

		b.WriteString("\n# Remove original small files\n")
		for _, f := range d.SmallFiles {
			execCmd(b, fmt.Sprintf("hdfs dfs -rm %s", quotePath(f.Path)),
				"Remove small file "+dqEscape(f.Path))
		}

		b.WriteString("\n# Clean up temporary file\n")
		execCmd(b, "rm -f '$TEMP_FILE'", "Clean up temporary file")

		fmt.Fprintf(b, "\nlog INFO \"Consolidated %d files in %s\"\n\n", len(d.SmallFiles), dqEscape(d.Path))
	}
	fmt.Fprintf(b, "log INFO \"Small files consolidation completed\"\n")
}

func renderReplication(b *bytes.Buffer, opt plan.Optimization) {
	banner(b, "Replication Optimization")
	fmt.Fprintf(b, "log INFO \"Starting replication optimization...\"\n")
	fmt.Fprintf(b, "log INFO \"Files to process: %d\"\n\n", len(opt.Files))

	for _, f := range opt.Files {
		fmt.Fprintf(b, "# Optimizing replication for: %s\n", commentSafe(f.Path))
		fmt.Fprintf(b, "log INFO \"Reducing replication for %s from %d to %d\"\n\n",
			dqEscape(f.Path), f.CurrentReplication, f.SuggestedReplication)

		execCmd(b, fmt.Sprintf("hdfs dfs -setrep %d %s", f.SuggestedReplication, quotePath(f.Path)),
			"Set replication factor for "+dqEscape(f.Path))

		b.WriteString("\n# Verify replication\n")
		fmt.Fprintf(b, "if [ \"$DRY_RUN\" = \"false\" ]; then\n")
		fmt.Fprintf(b, "    REPLICATION=$(hdfs dfs -stat %%r %s)\n", quotePath(f.Path))
		fmt.Fprintf(b, "    log INFO \"New replication factor for %s: $REPLICATION\"\nfi\n\n", dqEscape(f.Path))
	}
	fmt.Fprintf(b, "log INFO \"Replication optimization completed\"\n")
}

func renderCleanup(b *bytes.Buffer, opt plan.Optimization) {
	banner(b, "Cleanup Orphaned Files")
	fmt.Fprintf(b, "log INFO \"Starting cleanup of orphaned files...\"\n")
	fmt.Fprintf(b, "log INFO \"Files to remove: %d\"\n\n", len(opt.Files))

	for _, f := range opt.Files {
		fmt.Fprintf(b, "# Removing orphaned file: %s\n", commentSafe(f.Path))
		fmt.Fprintf(b, "log INFO \"Removing orphaned file %s (%.1f days old)\"\n\n", dqEscape(f.Path), f.AgeDays)

		if f.CleanupPriority == "critical" {
			b.WriteString("# Create safety backup for critical files\n")
			execCmd(b, fmt.Sprintf("hdfs dfs -cp %s '$BACKUP_DIR/$(basename %s)'", quotePath(f.Path), quotePath(f.Path)),
				"Backup critical file before deletion")
			b.WriteString("\n")
		}

		b.WriteString("# Remove the file (skip trash for temp files)\n")
		execCmd(b, fmt.Sprintf("hdfs dfs -rm -skipTrash %s", quotePath(f.Path)),
			"Remove orphaned file "+dqEscape(f.Path))
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "log INFO \"Cleanup completed\"\n")
}

func renderCompression(b *bytes.Buffer, opt plan.Optimization) {
	banner(b, "Data Compression")
	fmt.Fprintf(b, "log INFO \"Starting data compression optimization...\"\n")
	fmt.Fprintf(b, "log INFO \"Files to compress: %d\"\n\n", len(opt.Files))

	for _, f := range opt.Files {
		fmt.Fprintf(b, "# Compressing: %s\n", commentSafe(f.Path))
		fmt.Fprintf(b, "log INFO \"Compressing %s (%.2fGB)\"\n\n", dqEscape(f.Path), f.SizeGB)

		fmt.Fprintf(b, "TEMP_COMPRESSED=\"/tmp/compressed_$(basename %s).gz\"\n", quotePath(f.Path))
		fmt.Fprintf(b, "COMPRESSED_PATH=\"%s.gz\"\n\n", dqEscape(f.Path))

		b.WriteString("# Download, compress, and re-upload\n")
		execCmd(b, fmt.Sprintf("hdfs dfs -get %s - | gzip > '$TEMP_COMPRESSED'", quotePath(f.Path)),
			"Download and compress "+dqEscape(f.Path))
		execCmd(b, "hdfs dfs -put '$TEMP_COMPRESSED' '$COMPRESSED_PATH'",
			"Upload compressed file")
		execCmd(b, fmt.Sprintf("hdfs dfs -rm %s", quotePath(f.Path)),
			"Remove original uncompressed file")
		execCmd(b, "rm -f '$TEMP_COMPRESSED'",
			"Clean up temporary compressed file")

		fmt.Fprintf(b, "\nlog INFO \"Compressed %s successfully\"\n\n", dqEscape(f.Path))
	}
	fmt.Fprintf(b, "log INFO \"Data compression completed\"\n")
}

func renderClosing(b *bytes.Buffer, p *plan.Plan) {
	b.WriteString("\n")
	banner(b, "Post-Optimization Tasks")
	fmt.Fprintf(b, "log INFO \"Running post-optimization tasks...\"\n\n")
	b.WriteString(postTasks)

	b.WriteString("\n# Generate summary\n")
	b.WriteString("cat > \"$BACKUP_DIR/optimization_summary.txt\" << EOF\n")
	b.WriteString("HDFS Cost Optimization Summary\nGenerated: $(date)\n")
	fmt.Fprintf(b, "Optimization Plan ID: %s\n\n", dqEscape(p.PlanID))
	fmt.Fprintf(b, "Estimated Savings:\n- Monthly: \\$%.2f\n- Annual: \\$%.2f\n\n", p.TotalMonthlySavings, p.TotalAnnualSavings)
	fmt.Fprintf(b, "Affected Data: %.2fGB\n\n", p.AffectedDataGB)
	b.WriteString("Optimization Categories:\n")
	for _, opt := range p.Optimizations {
		if opt.Category == advisor.CategorySmallFiles {
			fmt.Fprintf(b, "- %s: %d directories\n", dqEscape(opt.Category), len(opt.Directories))
			continue
		}
		fmt.Fprintf(b, "- %s: %d files\n", dqEscape(opt.Category), len(opt.Files))
	}
	b.WriteString("\nBackup Location: $BACKUP_DIR\nLog File: $LOG_FILE\nEOF\n\n")

	fmt.Fprintf(b, "log INFO \"Optimization completed successfully!\"\n")
	fmt.Fprintf(b, "log INFO \"Summary saved to: $BACKUP_DIR/optimization_summary.txt\"\n")
	fmt.Fprintf(b, "log INFO \"Backup directory: $BACKUP_DIR\"\n\n")

	b.WriteString("# Display final summary\necho\necho \"========================================\"\n")
	b.WriteString("echo \"HDFS COST OPTIMIZATION COMPLETED\"\necho \"========================================\"\n")
	fmt.Fprintf(b, "echo \"Estimated Monthly Savings: \\$%.2f\"\n", p.TotalMonthlySavings)
	fmt.Fprintf(b, "echo \"Estimated Annual Savings: \\$%.2f\"\n", p.TotalAnnualSavings)
	fmt.Fprintf(b, "echo \"Affected Data: %.2fGB\"\n", p.AffectedDataGB)
	b.WriteString("echo \"Backup Location: $BACKUP_DIR\"\necho \"Log File: $LOG_FILE\"\n")
	b.WriteString("echo \"========================================\"\n")
}
