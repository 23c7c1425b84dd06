package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate completion script",
	Long: `To load completions:

Bash:
  $ source <(hdfslash completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ hdfslash completion bash > /etc/bash_completion.d/hdfslash
  # macOS:
  $ hdfslash completion bash > /usr/local/etc/bash_completion.d/hdfslash

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ hdfslash completion zsh > "${fpath[1]}/_hdfslash"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ hdfslash completion fish | source

  # To load completions for each session, execute once:
  $ hdfslash completion fish > ~/.config/fish/completions/hdfslash.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.ExactValidArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			fmt.Print(humanBashCompletion)
		case "zsh":
			rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			rootCmd.GenPowerShellCompletion(os.Stdout)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// humanBashCompletion is a handcrafted, minimal bash completion script
// that avoids the robotic verbosity of auto-generated ones.
const humanBashCompletion = `
# hdfslash bash completion

_hdfslash_completion() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="scan optimize summary script export calibrate completion help"

    case "${prev}" in
        scan)
            COMPREPLY=( $(compgen -W "--mock --strict --path --depth --progress --max-workers --help" -- ${cur}) )
            return 0
            ;;
        optimize)
            COMPREPLY=( $(compgen -W "--interactive --help" -- ${cur}) )
            return 0
            ;;
        summary)
             COMPREPLY=( $(compgen -W "--help" -- ${cur}) )
             return 0
             ;;
        script)
             COMPREPLY=( $(compgen -W "--out --help" -- ${cur}) )
             return 0
             ;;
        export)
             COMPREPLY=( $(compgen -W "--format --out --upload --help" -- ${cur}) )
             return 0
             ;;
        calibrate)
             COMPREPLY=( $(compgen -W "--profile --help" -- ${cur}) )
             return 0
             ;;
        completion)
             COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- ${cur}) )
             return 0
             ;;
        --format)
             COMPREPLY=( $(compgen -W "csv json html" -- ${cur}) )
             return 0
             ;;
        --region)
             # Common regions
             local regions="us-east-1 us-east-2 us-west-1 us-west-2 eu-central-1 eu-west-1 ap-southeast-1"
             COMPREPLY=( $(compgen -W "${regions}" -- ${cur}) )
             return 0
             ;;
        *)
            ;;
    esac

    # Global Flags
    if [[ ${cur} == -* ]] ; then
        COMPREPLY=( $(compgen -W "--help --version --namenode --region --data-dir --s3 --json --verbose" -- ${cur}) )
        return 0
    fi

    # Subcommands
    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
}

complete -F _hdfslash_completion hdfslash
`
