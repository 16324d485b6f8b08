package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/peterh/liner"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hitzhangjie/dwunwind/pkg/log"
)

const (
	cmdGroupAnnotation = "cmd_group_annotation"

	cmdGroupBreakpoints = "1-breaks"
	cmdGroupSource      = "2-source"
	cmdGroupCtrlFlow    = "3-execute"
	cmdGroupInfo        = "4-info"
	cmdGroupOthers      = "5-other"

	cmdGroupDelimiter = "-"

	prefix      = "dwunwind> "
	descShort   = "dwunwind interactive debugging commands"
	historyFile = ".dwunwind_history"
)

var debugRootCmd = &cobra.Command{
	Use:          "help [command]",
	Short:        descShort,
	SilenceUsage: true,
}

var (
	CurrentSession *DebugSession

	// MaxFrames bounds bt and frame, 0 means the unwinder default.
	MaxFrames int
)

// DebugSession 调试会话
type DebugSession struct {
	done    chan bool
	prefix  string
	root    *cobra.Command
	liner   *liner.State
	last    string
	history string

	defers []func()
}

// NewDebugSession 创建一个debug专用的交互管理器
func NewDebugSession() *DebugSession {
	debugRootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Println(cmd.Short)
		fmt.Println()
		fmt.Println(cmd.Use)
		fmt.Println(cmd.Flags().FlagUsages())
		fmt.Println(helpMessageByGroups(cmd))
	})

	s := &DebugSession{
		done:   make(chan bool),
		prefix: prefix,
		root:   debugRootCmd,
		liner:  liner.NewLiner(),
	}
	if home, err := homedir.Dir(); err == nil {
		s.history = filepath.Join(home, historyFile)
	}
	return s
}

// Start reads commands until exit, EOF or ctrl-c, then runs the AtExit
// hooks in reverse order.
func (s *DebugSession) Start() {
	s.liner.SetCompleter(completer)
	s.liner.SetTabCompletionStyle(liner.TabPrints)
	s.loadHistory()

	defer func() {
		s.saveHistory()
		s.liner.Close()
		for idx := len(s.defers) - 1; idx >= 0; idx-- {
			s.defers[idx]()
		}
	}()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		txt, err := s.liner.Prompt(s.prefix)
		if err == io.EOF || err == liner.ErrPromptAborted {
			return
		}
		if err != nil {
			fmt.Printf("read command err: %v\n", err)
			return
		}

		// 空行重复上一条命令
		txt = strings.TrimSpace(txt)
		if txt == "" {
			txt = s.last
		} else {
			s.last = txt
			s.liner.AppendHistory(txt)
		}
		if txt == "" {
			continue
		}

		s.root.SetArgs(strings.Fields(txt))
		if err := s.root.Execute(); err != nil {
			log.L().Debug("command failed", zap.String("cmd", txt), zap.Error(err))
		}
	}
}

func (s *DebugSession) loadHistory() {
	if s.history == "" {
		return
	}
	f, err := os.Open(s.history)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := s.liner.ReadHistory(f); err != nil {
		log.L().Warn("read history", zap.String("file", s.history), zap.Error(err))
	}
}

func (s *DebugSession) saveHistory() {
	if s.history == "" {
		return
	}
	f, err := os.Create(s.history)
	if err != nil {
		log.L().Warn("write history", zap.String("file", s.history), zap.Error(err))
		return
	}
	defer f.Close()
	s.liner.WriteHistory(f)
}

func (s *DebugSession) AtExit(fn func()) *DebugSession {
	s.defers = append(s.defers, fn)
	return s
}

func (s *DebugSession) Stop() {
	close(s.done)
}

// completer completes command names and aliases.
func completer(line string) []string {
	var cmds []string
	for _, c := range debugRootCmd.Commands() {
		names := append([]string{c.Name()}, c.Aliases...)
		cmds = append(cmds, lo.Filter(names, func(n string, _ int) bool {
			return strings.HasPrefix(n, line)
		})...)
	}
	return lo.Uniq(cmds)
}

// helpMessageByGroups 将各个命令按照分组归类，再展示帮助信息
func helpMessageByGroups(cmd *cobra.Command) string {
	groups := lo.GroupBy(cmd.Commands(), func(c *cobra.Command) string {
		if g, ok := c.Annotations[cmdGroupAnnotation]; ok {
			return g
		}
		// cobra内置命令以及未分组命令放入other组
		return cmdGroupOthers
	})

	names := lo.Keys(groups)
	sort.Strings(names)

	var buf strings.Builder
	for _, name := range names {
		lines := lo.Map(groups[name], func(c *cobra.Command, _ int) string {
			return fmt.Sprintf("  %-16s:%s", c.Name(), c.Short)
		})
		sort.Strings(lines)

		fmt.Fprintf(&buf, "- [%s]\n", name[strings.Index(name, cmdGroupDelimiter)+1:])
		for _, l := range lines {
			buf.WriteString(l + "\n")
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
