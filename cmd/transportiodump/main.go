// Copyright 2025 CloudWeGo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command transportiodump decodes a gzip stream or a captured SPDY/3
// header block from a file and prints the result, color-coding each
// section the way it would be laid out on the wire.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/wirepath/transportio/buf"
	"github.com/wirepath/transportio/gzipsource"
	"github.com/wirepath/transportio/iostream"
	"github.com/wirepath/transportio/spdy3"
)

func main() {
	mode := flag.String("mode", "gzip", "decode mode: gzip or spdy3-headers")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: transportiodump -mode={gzip,spdy3-headers} <file>")
		os.Exit(2)
	}

	out := colorableStdout()

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	var dumpErr error
	switch *mode {
	case "gzip":
		dumpErr = dumpGzip(out, f)
	case "spdy3-headers":
		dumpErr = dumpSpdy3Headers(out, f)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}
	if dumpErr != nil {
		fmt.Fprintln(out, color.RedString("error: %v", dumpErr))
		os.Exit(1)
	}
}

// colorableStdout wraps os.Stdout so ANSI codes still render on Windows
// terminals, and degrades gracefully when stdout isn't a terminal at all.
func colorableStdout() io.Writer {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	return colorable.NewColorableStdout()
}

func dumpGzip(out io.Writer, f *os.File) error {
	source := gzipsource.New(iostream.NewStreamSource(f))
	defer source.Close()

	dst := buf.New()
	var total int64
	for {
		n, err := source.Read(dst, 64*1024, iostream.NONE)
		total += n
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
	}
	body, err := dst.ReadByteString(dst.Len())
	if err != nil {
		return err
	}

	fmt.Fprintln(out, color.GreenString("gzip: decoded %d bytes", total))
	fmt.Fprintln(out, color.CyanString("body:"))
	fmt.Fprintln(out, string(body))
	return nil
}

func dumpSpdy3Headers(out io.Writer, f *os.File) error {
	source := iostream.NewStreamSource(f)
	reader, err := spdy3.NewHeaderBlockReader(buf.New(), source)
	if err != nil {
		return err
	}
	defer reader.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	headers, err := reader.ReadHeaderBlock(info.Size(), iostream.NONE)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, color.GreenString("spdy3: decoded %d header pairs", len(headers)))
	for _, h := range headers {
		fmt.Fprintf(out, "%s %s\n", color.YellowString("%s:", string(h.Name)), string(h.Value))
	}
	return nil
}
