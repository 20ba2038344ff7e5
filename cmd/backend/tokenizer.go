package main

import (
	"encoding/binary"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// tokenizer shells out to the external tokenizer script, which reads
// text on stdin and prints comma-separated token ids.
type tokenizer struct {
	command []string
	dir     string
}

func newTokenizer(command, dir string) (*tokenizer, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("empty tokenizer command")
	}
	return &tokenizer{command: fields, dir: dir}, nil
}

// tokenize returns the flat little-endian int64 token buffer the
// inference input expects.
func (t *tokenizer) tokenize(text string) ([]byte, error) {
	args := append(t.command[1:], t.dir)
	cmd := exec.Command(t.command[0], args...)
	cmd.Stdin = strings.NewReader(text)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, errors.Wrapf(err, "tokenizer failed: %s", strings.TrimSpace(string(output)))
	}

	var tokens []byte
	for _, part := range strings.Split(strings.TrimSpace(string(output)), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad token id %q", part)
		}
		tokens = binary.LittleEndian.AppendUint64(tokens, uint64(id))
	}
	if len(tokens) == 0 {
		return nil, errors.New("tokenizer produced no tokens")
	}
	return tokens, nil
}
