package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec names accepted by NewServer.
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// ErrUnsupportedCodec is returned for unknown codec names.
var ErrUnsupportedCodec = errors.New("unsupported codec")

// badRequestError marks a message that could not be decoded but did not
// break the stream.
type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return "invalid request: " + e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

type codec interface {
	// read returns io.EOF once the input is exhausted.
	read() (Request, error)
	write(v any) error
}

func newCodec(name string, r io.Reader, w io.Writer) (codec, error) {
	bw := bufio.NewWriter(w)
	switch strings.ToLower(strings.TrimSpace(name)) {
	case CodecJSON, "":
		return &jsonCodec{reader: bufio.NewReader(r), writer: bw}, nil
	case CodecMsgpack:
		return &msgpackCodec{dec: msgpack.NewDecoder(bufio.NewReader(r)), enc: msgpack.NewEncoder(bw), writer: bw}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedCodec, name)
}

// jsonCodec reads one JSON request per line.
type jsonCodec struct {
	reader *bufio.Reader
	writer *bufio.Writer
}

func (c *jsonCodec) read() (Request, error) {
	for {
		line, err := c.reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			if err != nil {
				return Request{}, err
			}
			continue
		}
		var req Request
		if jerr := json.Unmarshal([]byte(line), &req); jerr != nil {
			return Request{}, &badRequestError{err: jerr}
		}
		return req, nil
	}
}

func (c *jsonCodec) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := c.writer.Write(append(data, '\n')); err != nil {
		return err
	}
	return c.writer.Flush()
}

// msgpackCodec reads a stream of msgpack encoded requests.
type msgpackCodec struct {
	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
	writer *bufio.Writer
}

func (c *msgpackCodec) read() (Request, error) {
	var req Request
	if err := c.dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Request{}, io.EOF
		}
		return Request{}, err
	}
	return req, nil
}

func (c *msgpackCodec) write(v any) error {
	if err := c.enc.Encode(v); err != nil {
		return err
	}
	return c.writer.Flush()
}
