// Copyright 2020 xgfone
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command bencode inspects and produces the bencoded data.
//
// Usage:
//
//	bencode decode [-utf8] [-tuple] [file]  Decode and print the value
//	bencode check file...                   Check the canonical form of the files
//	bencode from-json [file]                Convert JSON to the canonical bencode
//	bencode torrent file                    Print the summary of a .torrent file
//
// If no file is given or the file is "-", reads from stdin.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
)

const usage = `Usage: bencode <command> [arguments]

Commands:
  decode [-utf8] [-tuple] [file]  Decode and print the value
  check file...                   Check the canonical form of the files
  from-json [file]                Convert JSON to the canonical bencode
  torrent file                    Print the summary of a .torrent file
`

// App is the command line application.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// ErrorLog is used to report the errors.
	//
	// Default: log.Printf
	ErrorLog func(format string, args ...interface{})
}

func (a *App) set() {
	if a.Stdin == nil {
		a.Stdin = os.Stdin
	}
	if a.Stdout == nil {
		a.Stdout = os.Stdout
	}
	if a.Stderr == nil {
		a.Stderr = os.Stderr
	}
	if a.ErrorLog == nil {
		a.ErrorLog = log.Printf
	}
}

// Run runs the command by the arguments, which don't contain the program
// name, and returns the exit code.
func (a *App) Run(args []string) int {
	a.set()
	if len(args) == 0 {
		fmt.Fprint(a.Stderr, usage)
		return 2
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "decode":
		return a.runDecode(args)
	case "check":
		return a.runCheck(args)
	case "from-json":
		return a.runFromJSON(args)
	case "torrent":
		return a.runTorrent(args)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(a.Stdout, usage)
		return 0
	default:
		fmt.Fprintf(a.Stderr, "bencode: unknown command %q\n\n%s", cmd, usage)
		return 2
	}
}

// readInput reads all the data from the file, or stdin if the file
// is empty or "-".
func (a *App) readInput(file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(a.Stdin)
	}
	return os.ReadFile(file)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("bencode: ")
	os.Exit(new(App).Run(os.Args[1:]))
}
