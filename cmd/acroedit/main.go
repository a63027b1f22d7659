// Command acroedit is a thin CLI over the acroform package: list, add,
// update, remove, clear, and flatten AcroForm fields in a PDF.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"regexp"

	"github.com/benedoc-inc/acroedit/acroform"
	"github.com/benedoc-inc/acroedit/types"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 {
		log.Fatal("usage: acroedit <list-fields|list-pages|add-field|update-field|remove-field|clear|flatten> [flags]")
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "list-fields":
		runListFields(args)
	case "list-pages":
		runListPages(args)
	case "add-field":
		runAddField(args)
	case "update-field":
		runUpdateField(args)
	case "remove-field":
		runRemoveField(args)
	case "clear":
		runClear(args)
	case "flatten":
		runFlatten(args)
	default:
		log.Fatalf("unknown command %q", cmd)
	}
}

func commonFlags(fs *flag.FlagSet) (input *string, output *string, verbose *bool) {
	input = fs.String("input", "", "path to input PDF")
	output = fs.String("output", "", "path to output PDF (defaults to stdout)")
	verbose = fs.Bool("verbose", false, "enable diagnostic logging")
	return
}

func openDocument(path string, verbose bool) (*acroform.Document, []byte) {
	if path == "" {
		log.Fatal("Error: -input flag is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Error reading %s: %v", path, err)
	}
	var opts []acroform.Option
	if verbose {
		opts = append(opts, acroform.WithSink(types.NewSlogSink(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))))
	} else {
		opts = append(opts, acroform.WithSink(types.NopSink{}))
	}
	doc, err := acroform.Open(raw, opts...)
	if err != nil {
		log.Fatalf("Error opening %s: %v", path, err)
	}
	return doc, raw
}

func runListFields(args []string) {
	fs := flag.NewFlagSet("list-fields", flag.ExitOnError)
	input, _, verbose := commonFlags(fs)
	fs.Parse(args)

	doc, _ := openDocument(*input, *verbose)
	fields := doc.ListFields()
	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding fields: %v", err)
	}
	fmt.Println(string(out))
}

func runListPages(args []string) {
	fs := flag.NewFlagSet("list-pages", flag.ExitOnError)
	input, _, verbose := commonFlags(fs)
	fs.Parse(args)

	doc, _ := openDocument(*input, *verbose)
	pages := doc.ListPages()
	out, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding pages: %v", err)
	}
	fmt.Println(string(out))
}

func runAddField(args []string) {
	fs := flag.NewFlagSet("add-field", flag.ExitOnError)
	input, output, verbose := commonFlags(fs)
	name := fs.String("name", "", "field name")
	fieldType := fs.String("type", "Tx", "field type: Tx, Btn, Ch, Sig")
	page := fs.Int("page", 1, "1-indexed target page")
	rect := fs.String("rect", "0 0 100 20", "widget rectangle: \"llx lly urx ury\"")
	value := fs.String("value", "", "initial field value")
	flags := fs.Int("flags", 0, "/Ff override; 0 uses the type's default")
	flatten := fs.Bool("flatten", false, "fully rewrite instead of an incremental update")
	fs.Parse(args)

	if *name == "" {
		log.Fatal("Error: -name flag is required")
	}
	doc, _ := openDocument(*input, *verbose)

	var r [4]float64
	if _, err := fmt.Sscanf(*rect, "%g %g %g %g", &r[0], &r[1], &r[2], &r[3]); err != nil {
		log.Fatalf("Error parsing -rect %q: %v", *rect, err)
	}

	_, err := doc.AddField(*name, acroform.AddFieldOptions{
		Type:  acroform.FieldType("/" + *fieldType),
		Page:  *page,
		Rect:  r,
		Value: *value,
		Flags: *flags,
	})
	if err != nil {
		log.Fatalf("Error adding field: %v", err)
	}
	writeResult(doc, *output, *flatten)
}

func runUpdateField(args []string) {
	fs := flag.NewFlagSet("update-field", flag.ExitOnError)
	input, output, verbose := commonFlags(fs)
	name := fs.String("name", "", "field name to update")
	value := fs.String("value", "", "new field value")
	newName := fs.String("new-name", "", "rename the field to this")
	flatten := fs.Bool("flatten", false, "fully rewrite instead of an incremental update")
	fs.Parse(args)

	if *name == "" {
		log.Fatal("Error: -name flag is required")
	}
	doc, _ := openDocument(*input, *verbose)

	if err := doc.UpdateField(*name, acroform.UpdateFieldOptions{Value: *value, NewName: *newName}); err != nil {
		log.Fatalf("Error updating field: %v", err)
	}
	writeResult(doc, *output, *flatten)
}

func runRemoveField(args []string) {
	fs := flag.NewFlagSet("remove-field", flag.ExitOnError)
	input, output, verbose := commonFlags(fs)
	name := fs.String("name", "", "field name to remove")
	flatten := fs.Bool("flatten", false, "fully rewrite instead of an incremental update")
	fs.Parse(args)

	if *name == "" {
		log.Fatal("Error: -name flag is required")
	}
	doc, _ := openDocument(*input, *verbose)

	if err := doc.RemoveField(*name); err != nil {
		log.Fatalf("Error removing field: %v", err)
	}
	writeResult(doc, *output, *flatten)
}

func runClear(args []string) {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	input, output, verbose := commonFlags(fs)
	keep := fs.String("keep", "", "comma-separated field names to keep; every other field is dropped")
	pattern := fs.String("pattern", "", "regex of field names to drop")
	flatten := fs.Bool("flatten", false, "fully rewrite instead of an incremental update")
	fs.Parse(args)

	doc, _ := openDocument(*input, *verbose)

	sel := acroform.Selector{}
	if *keep != "" {
		sel.Keep = splitCSV(*keep)
	} else if *pattern != "" {
		re, err := regexp.Compile(*pattern)
		if err != nil {
			log.Fatalf("Error compiling -pattern: %v", err)
		}
		sel.Pattern = re
	}

	if err := doc.Clear(sel); err != nil {
		log.Fatalf("Error clearing fields: %v", err)
	}
	writeResult(doc, *output, *flatten)
}

func runFlatten(args []string) {
	fs := flag.NewFlagSet("flatten", flag.ExitOnError)
	input, output, verbose := commonFlags(fs)
	fs.Parse(args)

	doc, _ := openDocument(*input, *verbose)
	out, err := doc.Flatten()
	if err != nil {
		log.Fatalf("Error flattening: %v", err)
	}
	writeBytes(out, *output)
}

func writeResult(doc *acroform.Document, output string, flatten bool) {
	out, err := doc.Write(flatten)
	if err != nil {
		log.Fatalf("Error writing document: %v", err)
	}
	writeBytes(out, output)
}

func writeBytes(out []byte, output string) {
	if output == "" {
		os.Stdout.Write(out)
		return
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		log.Fatalf("Error writing %s: %v", output, err)
	}
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
