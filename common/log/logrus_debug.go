//go:build debug

package log

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var basePath string

func init() {
	basePath, _ = filepath.Abs(".")
}

// init enables caller reporting for debug builds, and trims the reported
// function to its package plus receiver/function name (e.g.
// "trie.buildLevel") instead of the full import path, since every caller
// in this tree lives under one of a handful of grimoire/ packages.
func init() {
	logrus.StandardLogger().SetReportCaller(true)
	logrus.StandardLogger().Formatter.(*logrus.TextFormatter).CallerPrettyfier = func(frame *runtime.Frame) (function string, file string) {
		function = frame.Function
		if idx := strings.LastIndex(function, "/"); idx >= 0 {
			function = function[idx+1:]
		}

		file = frame.File + ":" + strconv.Itoa(frame.Line)
		if strings.HasPrefix(file, basePath) {
			file = file[len(basePath)+1:]
		}
		file = " " + file
		return
	}
}
