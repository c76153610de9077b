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

package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/xgfone/go-bencode/bencode"
	"golang.org/x/sync/errgroup"
)

// checkFiles checks whether each file holds exactly one canonical value,
// and returns the error of each file in order.
func checkFiles(files []string, limit int) []error {
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			data, err := os.ReadFile(file)
			if err == nil {
				_, err = bencode.Decode(data)
			}
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

func (a *App) runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	jobs := fs.Int("jobs", runtime.NumCPU(), "The number of the files checked in parallel")
	if err := fs.Parse(args); err != nil {
		return 2
	} else if fs.NArg() == 0 {
		fmt.Fprintln(a.Stderr, "bencode check: missing files")
		return 2
	}

	if *jobs <= 0 {
		*jobs = runtime.NumCPU()
	}

	code := 0
	for i, err := range checkFiles(fs.Args(), *jobs) {
		if err != nil {
			code = 1
			fmt.Fprintf(a.Stdout, "%s: %v\n", fs.Arg(i), err)
			a.ErrorLog("check %s: %v", fs.Arg(i), err)
		} else {
			fmt.Fprintf(a.Stdout, "%s: ok\n", fs.Arg(i))
		}
	}
	return code
}
