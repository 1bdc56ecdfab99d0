//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/lucasjlepore/runtastic-gpx/pipeline"
)

func main() {
	js.Global().Set("convertRuntasticExport", js.FuncOf(convertRuntasticExport))
	select {}
}

func convertRuntasticExport(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{
			"ok":    false,
			"error": "expected arguments: fileBytes(Uint8Array), options(object)",
		}
	}
	fileArg := args[0]
	optsArg := js.Undefined()
	if len(args) > 1 {
		optsArg = args[1]
	}
	if fileArg.IsUndefined() || fileArg.IsNull() || fileArg.Get("length").Int() == 0 {
		return map[string]any{
			"ok":    false,
			"error": "export archive bytes are required",
		}
	}

	fileBytes := make([]byte, fileArg.Get("length").Int())
	if n := js.CopyBytesToGo(fileBytes, fileArg); n == 0 {
		return map[string]any{
			"ok":    false,
			"error": "failed to read archive bytes from JS input",
		}
	}

	result, err := pipeline.RunBytes(pipeline.BytesOptions{
		SourceFileName: getString(optsArg, "source_file_name", "export.zip"),
		ArchiveData:    fileBytes,
		WriteFIT:       getBool(optsArg, "fit"),
		WriteManifest:  getBool(optsArg, "manifest"),
	})
	if err != nil {
		return map[string]any{
			"ok":    false,
			"error": err.Error(),
		}
	}

	payload := js.Global().Get("Uint8Array").New(len(result.Archive))
	js.CopyBytesToJS(payload, result.Archive)

	skipped := make([]any, len(result.Skipped))
	for i, s := range result.Skipped {
		skipped[i] = map[string]any{
			"file":   s.File,
			"key":    s.Key,
			"reason": s.Reason,
		}
	}

	return map[string]any{
		"ok":        true,
		"zip":       payload,
		"file_name": pipeline.OutputPath(getString(optsArg, "source_file_name", "export.zip")),
		"converted": stringsToAny(result.Converted),
		"skipped":   skipped,
		"warnings":  stringsToAny(result.Warnings),
		"files":     stringsToAny(result.Entries),
	}
}

func getString(v js.Value, key, fallback string) string {
	if v.IsUndefined() || v.IsNull() {
		return fallback
	}
	out := v.Get(key)
	if out.IsUndefined() || out.IsNull() {
		return fallback
	}
	s := out.String()
	if s == "" || s == "undefined" || s == "null" {
		return fallback
	}
	return s
}

func getBool(v js.Value, key string) bool {
	if v.IsUndefined() || v.IsNull() {
		return false
	}
	out := v.Get(key)
	if out.Type() != js.TypeBoolean {
		return false
	}
	return out.Bool()
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
