/*
Package server implements the stdin/stdout IPC used by desktop and browser
shells to drive a word chain session.

# IPC

Clients write one request per message and read one response per request.
Two encodings are supported: line delimited JSON (the default) and a
msgpack stream. Every request names a command and carries only the
fields that command reads:

	{"id": "1", "command": "find-next-words", "word": "bánh mì", "limit": 10}

The response echoes the id, reports a status and holds the command result:

	{"id": "1", "status": "ok", "result": [{"word": "mì quảng", "isDead": false}], "t": 41}

Failed requests carry "status": "error" and a message in "error". Malformed
JSON lines get an error response with an empty id and the loop continues.

Before the first request the server writes {"status": "ready"}.

# Commands

Queries: can-chain, find-next-words, find-next-words-paginated,
find-previous-words, find-previous-words-paginated, validate-chain,
generate-word-chains, find-chains-to-dead-words, longest-chain, rank-moves,
has-word, is-valid-compound-word, validate-word-complete, search,
get-stats, get-user-words, get-dead-words, get-history, get-random-words.

Mutations: add-words, remove-words, update-word, update-dead-words,
set-language, reload.

Other: get-language, health.

Requests are handled one at a time; a mutex also serializes reloads
triggered by the user word file watcher.
*/
package server

// Request is one IPC request.
type Request struct {
	ID        string   `json:"id" msgpack:"id"`
	Command   string   `json:"command" msgpack:"command"`
	Word      string   `json:"word,omitempty" msgpack:"word,omitempty"`
	NewWord   string   `json:"new_word,omitempty" msgpack:"new_word,omitempty"`
	Words     []string `json:"words,omitempty" msgpack:"words,omitempty"`
	Limit     int      `json:"limit,omitempty" msgpack:"limit,omitempty"`
	Exclude   []string `json:"exclude,omitempty" msgpack:"exclude,omitempty"`
	MaxChains int      `json:"max_chains,omitempty" msgpack:"max_chains,omitempty"`
	MaxLength int      `json:"max_length,omitempty" msgpack:"max_length,omitempty"`
	Language  string   `json:"language,omitempty" msgpack:"language,omitempty"`
	Count     int      `json:"count,omitempty" msgpack:"count,omitempty"`
	Random    bool     `json:"random,omitempty" msgpack:"random,omitempty"`
	Order     string   `json:"order,omitempty" msgpack:"order,omitempty"`
	Strict    bool     `json:"strict,omitempty" msgpack:"strict,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusReady = "ready"
)

// Response answers one Request. TimeTaken is in microseconds.
type Response struct {
	ID        string `json:"id" msgpack:"id"`
	Status    string `json:"status" msgpack:"status"`
	Error     string `json:"error,omitempty" msgpack:"error,omitempty"`
	Result    any    `json:"result" msgpack:"result"`
	TimeTaken int64  `json:"t" msgpack:"t"`
}

// LanguageInfo is the result of set-language and get-language.
type LanguageInfo struct {
	Language  string   `json:"language" msgpack:"language"`
	Available []string `json:"available" msgpack:"available"`
}

// HealthInfo is the result of health.
type HealthInfo struct {
	Status   string `json:"status" msgpack:"status"`
	Language string `json:"language" msgpack:"language"`
	Words    int    `json:"words" msgpack:"words"`
	Requests int    `json:"requests" msgpack:"requests"`
}
