package target

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// readProcComm read /proc/pid/comm or /proc/pid/stat to load the command line of process.
func readProcComm(pid int) (string, error) {
	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err == nil {
		// removes newline character
		comm = bytes.TrimSuffix(comm, []byte("\n"))
	}

	if len(comm) == 0 {
		stat, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
		if err != nil {
			return "", fmt.Errorf("could not read proc stat: %v", err)
		}
		expr := fmt.Sprintf("%d\\s*\\((.*)\\)", pid)
		rexp, err := regexp.Compile(expr)
		if err != nil {
			return "", fmt.Errorf("regexp compile error: %v", err)
		}
		match := rexp.FindSubmatch(stat)
		if match == nil {
			return "", fmt.Errorf("no match found using regexp '%s' in /proc/%d/stat", expr, pid)
		}
		comm = match[1]
	}

	cmdStr := strings.ReplaceAll(string(comm), "%", "%%")
	return cmdStr, nil
}

// readProcCommArgs read /proc/pid/cmdline to load the command arguments of process
func readProcCommArgs(pid int) ([]string, error) {
	dat, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return nil, err
	}
	dat = bytes.TrimSuffix(dat, []byte{0})
	args := strings.Split(string(dat), string([]byte{0}))
	if len(args) <= 1 {
		return nil, nil
	}
	return args[1:], nil
}

// readThreadIDs lists /proc/pid/task, sorted
func readThreadIDs(pid int) ([]int, error) {
	threadIDs := []int{}

	tids, _ := filepath.Glob(fmt.Sprintf("/proc/%d/task/*", pid))
	for _, tidpath := range tids {
		tidstr := filepath.Base(tidpath)
		tid, err := strconv.Atoi(tidstr)
		if err != nil {
			return nil, err
		}
		threadIDs = append(threadIDs, tid)
	}
	sort.Ints(threadIDs)
	return threadIDs, nil
}

// procStatus returns the state field of /proc/pid/stat
func procStatus(pid int) rune {
	dat, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return '\000'
	}
	// The second field of /proc/pid/stat is the name of the task in parenthesis.
	// Both parenthesis and spaces can appear inside the name and no escaping
	// happens, so the state follows the last ')'.
	idx := bytes.LastIndexByte(dat, ')')
	if idx < 0 {
		return '\000'
	}
	rest := bytes.TrimLeft(dat[idx+1:], " ")
	if len(rest) == 0 {
		return '\000'
	}
	return rune(rest[0])
}

// Process statuses
const (
	statusSleeping = 'S'
	statusRunning  = 'R'
	statusZombie   = 'Z'
)
