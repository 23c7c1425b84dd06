package script

import (
	"bytes"
	"fmt"
	"io"
	"time"
)

const rollbackPrologue = `set -e

LOG_FILE="/var/log/hdfs_rollback_$(date +%Y%m%d_%H%M%S).log"
BACKUP_DIR="/tmp/hdfs_backup_*"  # Find the most recent backup

# Colors
RED='\033[0;31m'
GREEN='\033[0;32m'
YELLOW='\033[1;33m'
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

# Find most recent backup
find_backup_dir() {
    BACKUP_DIR=$(ls -dt /tmp/hdfs_backup_* 2>/dev/null | head -1)
    if [ -z "$BACKUP_DIR" ]; then
        log ERROR "No backup directory found"
        exit 1
    fi
    log INFO "Using backup directory: $BACKUP_DIR"
}
`

const rollbackEpilogue = `
    log WARN "Rollback functionality requires manual implementation"
    log INFO "Please review the backup at: $BACKUP_DIR"
    log INFO "And manually reverse the optimization steps"

    # Example rollback actions:
    # - Restore files from backup
    # - Reset storage policies
    # - Adjust replication factors
    # - Restore deleted files
}

# Main execution
main() {
    log INFO "HDFS Optimization Rollback Starting..."

    find_backup_dir
    rollback_optimization

    log INFO "Rollback completed"
    log INFO "Log file: $LOG_FILE"
}

main "$@"
`

// RenderRollback writes the rollback script for one optimization run.
// Reversal itself stays manual: the pre-run backup holds the cluster
// reports needed to reverse each step by hand.
func RenderRollback(w io.Writer, optimizationID string, generatedAt time.Time) error {
	var b bytes.Buffer

	fmt.Fprintf(&b, "#!/bin/bash\n# HDFS Optimization Rollback Script\n")
	fmt.Fprintf(&b, "# Generated: %s\n", generatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "# Optimization ID: %s\n\n", commentSafe(optimizationID))

	b.WriteString(rollbackPrologue)

	b.WriteString("\n# Rollback function\nrollback_optimization() {\n")
	fmt.Fprintf(&b, "    log INFO \"Starting rollback for optimization %s\"\n", dqEscape(optimizationID))
	b.WriteString(rollbackEpilogue)

	_, err := w.Write(b.Bytes())
	return err
}
