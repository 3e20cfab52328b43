package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dejo1307/jsxlint/internal/diag"
)

// WriteJSONL writes one diagnostic per line.
func WriteJSONL(w io.Writer, diags []diag.Diagnostic) error {
	enc := json.NewEncoder(w)
	for _, d := range diags {
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encoding diagnostic %s in %s: %w", d.Category, d.File, err)
		}
	}
	return nil
}

// WriteJSONLFile writes diagnostics as JSONL to the given file path.
func WriteJSONLFile(path string, diags []diag.Diagnostic) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if err := WriteJSONL(bw, diags); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadJSONL reads diagnostics written by WriteJSONL.
func ReadJSONL(r io.Reader) ([]diag.Diagnostic, error) {
	var out []diag.Diagnostic
	scanner := bufio.NewScanner(r)
	// Allow large lines
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var d diag.Diagnostic
		if err := json.Unmarshal(line, &d); err != nil {
			return nil, fmt.Errorf("decoding diagnostic: %w", err)
		}
		out = append(out, d)
	}
	return out, scanner.Err()
}

// ReadJSONLFile reads diagnostics from a JSONL file.
func ReadJSONLFile(path string) ([]diag.Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSONL(f)
}
