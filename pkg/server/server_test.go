package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/bastiangx/wordchain/pkg/chain"
	"github.com/bastiangx/wordchain/pkg/dictionary"
	"github.com/bastiangx/wordchain/pkg/persist"
	"github.com/bastiangx/wordchain/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

var lists = dictionary.StaticProvider{
	dictionary.Vietnamese: {"bánh mì", "mì quảng", "quảng nam"},
	dictionary.English:    {"cat", "tiger", "rabbit"},
}

func newSession(t *testing.T, p dictionary.Persister) *session.Session {
	t.Helper()
	sess, err := session.New(context.Background(), session.Options{
		Provider:  lists,
		Persister: p,
		Rand:      rand.New(rand.NewPCG(7, 7)),
	})
	require.NoError(t, err)
	return sess
}

type jsonResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Result json.RawMessage `json:"result"`
}

func runJSON(t *testing.T, sess *session.Session, input string) []jsonResponse {
	t.Helper()
	var out bytes.Buffer
	srv, err := NewServer(sess, strings.NewReader(input), &out, CodecJSON)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))

	var resps []jsonResponse
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var r jsonResponse
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r), scanner.Text())
		resps = append(resps, r)
	}
	return resps
}

func TestJSONLoop(t *testing.T) {
	input := strings.Join([]string{
		`{"id":"1","command":"can-chain","words":["bánh mì","mì quảng"]}`,
		`this is not json`,
		``,
		`{"id":"2","command":"fly-away"}`,
		`{"id":"3","command":"find-next-words","word":"bánh mì"}`,
		`{"id":"4","command":"get-dead-words"}`,
	}, "\n")

	resps := runJSON(t, newSession(t, nil), input)
	require.Len(t, resps, 6)

	assert.Equal(t, StatusReady, resps[0].Status)

	assert.Equal(t, "1", resps[1].ID)
	assert.Equal(t, StatusOK, resps[1].Status)
	assert.JSONEq(t, `true`, string(resps[1].Result))

	assert.Empty(t, resps[2].ID)
	assert.Equal(t, StatusError, resps[2].Status)
	assert.Contains(t, resps[2].Error, "invalid request")

	assert.Equal(t, "2", resps[3].ID)
	assert.Equal(t, StatusError, resps[3].Status)
	assert.Contains(t, resps[3].Error, "unknown command")

	assert.JSONEq(t, `[{"word":"mì quảng","isDead":false}]`, string(resps[4].Result))
	assert.JSONEq(t, `["quảng nam"]`, string(resps[5].Result))
}

func TestJSONLoopFalseResultIsKept(t *testing.T) {
	resps := runJSON(t, newSession(t, nil), `{"id":"x","command":"has-word","word":"phở bò"}`+"\n")
	require.Len(t, resps, 2)
	assert.JSONEq(t, `false`, string(resps[1].Result))
}

func TestMsgpackLoop(t *testing.T) {
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	require.NoError(t, enc.Encode(Request{ID: "a", Command: "find-previous-words", Word: "quảng nam"}))
	require.NoError(t, enc.Encode(Request{ID: "b", Command: "validate-chain", Words: []string{"bánh mì", "mì quảng", "quảng nam"}, Strict: true}))

	var out bytes.Buffer
	srv, err := NewServer(newSession(t, nil), &in, &out, CodecMsgpack)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))

	dec := msgpack.NewDecoder(&out)
	var ready map[string]string
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, StatusReady, ready["status"])

	type raw struct {
		ID     string             `msgpack:"id"`
		Status string             `msgpack:"status"`
		Result msgpack.RawMessage `msgpack:"result"`
	}
	var prev raw
	require.NoError(t, dec.Decode(&prev))
	assert.Equal(t, "a", prev.ID)
	var words []string
	require.NoError(t, msgpack.Unmarshal(prev.Result, &words))
	assert.Equal(t, []string{"mì quảng"}, words)

	var valid raw
	require.NoError(t, dec.Decode(&valid))
	var ok bool
	require.NoError(t, msgpack.Unmarshal(valid.Result, &ok))
	assert.True(t, ok)
}

func TestUnsupportedCodec(t *testing.T) {
	_, err := NewServer(newSession(t, nil), strings.NewReader(""), &bytes.Buffer{}, "xml")
	assert.ErrorIs(t, err, ErrUnsupportedCodec)
}

func TestHandleMutations(t *testing.T) {
	p := persist.NewMemoryStore(nil)
	sess := newSession(t, p)
	srv, err := NewServer(sess, strings.NewReader(""), &bytes.Buffer{}, CodecJSON)
	require.NoError(t, err)
	ctx := context.Background()

	resp := srv.Handle(ctx, Request{Command: "add-words", Words: []string{"nam định", "xyz", "bánh mì"}})
	require.Equal(t, StatusOK, resp.Status)
	added := resp.Result.(dictionary.AddResult)
	assert.Equal(t, []string{"nam định"}, added.Added)
	assert.Equal(t, []string{"bánh mì"}, added.Duplicates)
	assert.Equal(t, []string{"xyz"}, added.Rejected)

	resp = srv.Handle(ctx, Request{Command: "find-next-words", Word: "quảng nam"})
	assert.Equal(t, []chain.Result{{Word: "nam định", IsDead: true}}, resp.Result)

	resp = srv.Handle(ctx, Request{Command: "update-word", Word: "nam định", NewWord: "nam bộ"})
	assert.True(t, resp.Result.(dictionary.UpdateResult).Updated)

	resp = srv.Handle(ctx, Request{Command: "get-user-words"})
	assert.Equal(t, []string{"nam bộ"}, resp.Result)

	resp = srv.Handle(ctx, Request{Command: "update-word", Word: "nam bộ"})
	assert.Equal(t, StatusError, resp.Status)

	resp = srv.Handle(ctx, Request{Command: "remove-words", Word: "nam bộ"})
	assert.Equal(t, []string{"nam bộ"}, resp.Result.(dictionary.RemoveResult).Removed)
}

func TestHandleLanguage(t *testing.T) {
	srv, err := NewServer(newSession(t, nil), strings.NewReader(""), &bytes.Buffer{}, CodecJSON)
	require.NoError(t, err)
	ctx := context.Background()

	resp := srv.Handle(ctx, Request{Command: "set-language", Language: "en"})
	require.Equal(t, StatusOK, resp.Status)
	info := resp.Result.(LanguageInfo)
	assert.Equal(t, "english", info.Language)
	assert.Contains(t, info.Available, "vietnamese")

	resp = srv.Handle(ctx, Request{Command: "can-chain", Word: "cat", NewWord: "tiger"})
	assert.Equal(t, true, resp.Result)

	resp = srv.Handle(ctx, Request{Command: "set-language", Language: "klingon"})
	assert.Equal(t, StatusError, resp.Status)

	resp = srv.Handle(ctx, Request{Command: "health"})
	health := resp.Result.(HealthInfo)
	assert.Equal(t, "english", health.Language)
	assert.Equal(t, 3, health.Words)
	assert.Equal(t, 4, health.Requests)
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	p := persist.NewMemoryStore(nil)
	sess := newSession(t, p)
	srv, err := NewServer(sess, strings.NewReader(""), &bytes.Buffer{}, CodecJSON)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, p.Save(ctx, dictionary.UserWords{dictionary.Vietnamese: {"nam định"}}))
	srv.Reload(ctx)

	resp := srv.Handle(ctx, Request{Command: "has-word", Word: "nam định"})
	assert.Equal(t, true, resp.Result)
}
