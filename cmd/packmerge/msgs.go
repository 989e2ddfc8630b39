package packmerge

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Merge directory trees, asking only when copies differ"
	MsgCompareShort    = "Merge two packs, hashing everything up front"
	MsgCombineShort    = "Merge any number of packs into a new directory"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Usage lines, printed when the argument count is wrong
	MsgCompareUsage = "usage: packmerge compare <pack1_dir> <pack2_dir> <output_dir>"
	MsgCombineUsage = "usage: packmerge combine <output_dir> <pack_dir>..."

	// Version output
	MsgVersionFormat = "packmerge version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrNoCommand   = "no command specified"
	MsgErrLoadConfig  = "failed to load configuration"
	MsgErrWriteReport = "failed to write report"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun     = "Show the merge plan without writing the output"
	MsgFlagWorkers    = "Number of hashing workers (0 uses one per CPU)"
	MsgFlagSequential = "Hash files one at a time"
	MsgFlagExclude    = "Leave out relative paths matching this glob (repeatable, ** allowed)"
	MsgFlagFormat     = "Report format: text, json, yaml or toml"
	MsgFlagNoColor    = "Disable colored output"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/compare-long.txt
	msgCompareLongRaw string
	MsgCompareLong    = strings.TrimSpace(msgCompareLongRaw)

	//go:embed msgs/compare-example.txt
	msgCompareExampleRaw string
	MsgCompareExample    = strings.TrimRight(msgCompareExampleRaw, "\n")

	//go:embed msgs/combine-long.txt
	msgCombineLongRaw string
	MsgCombineLong    = strings.TrimSpace(msgCombineLongRaw)

	//go:embed msgs/combine-example.txt
	msgCombineExampleRaw string
	MsgCombineExample    = strings.TrimRight(msgCombineExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
