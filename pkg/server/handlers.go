package server

import (
	"context"
	"fmt"

	"github.com/bastiangx/wordchain/pkg/chain"
	"github.com/bastiangx/wordchain/pkg/dictionary"
)

type handler func(ctx context.Context, req Request) (any, error)

func (s *Server) routes() map[string]handler {
	return map[string]handler{
		"can-chain":                     s.canChain,
		"find-next-words":               s.findNextWords,
		"find-next-words-paginated":     s.findNextWordsPaginated,
		"find-previous-words":           s.findPreviousWords,
		"find-previous-words-paginated": s.findPreviousWordsPaginated,
		"validate-chain":                s.validateChain,
		"generate-word-chains":          s.generateWordChains,
		"find-chains-to-dead-words":     s.findChainsToDeadWords,
		"longest-chain":                 s.longestChain,
		"rank-moves":                    s.rankMoves,
		"has-word":                      s.hasWord,
		"is-valid-compound-word":        s.isValidCompoundWord,
		"validate-word-complete":        s.validateWordComplete,
		"search":                        s.search,
		"get-stats":                     s.getStats,
		"get-user-words":                s.getUserWords,
		"get-dead-words":                s.getDeadWords,
		"get-history":                   s.getHistory,
		"get-random-words":              s.getRandomWords,
		"add-words":                     s.addWords,
		"remove-words":                  s.removeWords,
		"update-word":                   s.updateWord,
		"update-dead-words":             s.updateDeadWords,
		"set-language":                  s.setLanguage,
		"get-language":                  s.getLanguage,
		"reload":                        s.reload,
		"health":                        s.health,
	}
}

// pair returns the two words of a two word request, from Words or from
// Word and NewWord.
func pair(req Request) (string, string, error) {
	switch {
	case len(req.Words) >= 2:
		return req.Words[0], req.Words[1], nil
	case req.Word != "" && req.NewWord != "":
		return req.Word, req.NewWord, nil
	}
	return "", "", fmt.Errorf("%s needs two words", req.Command)
}

// words returns Words, or Word as a one element list.
func words(req Request) []string {
	if len(req.Words) == 0 && req.Word != "" {
		return []string{req.Word}
	}
	return req.Words
}

func options(req Request) chain.Options {
	opts := chain.Options{Limit: req.Limit, Random: req.Random}
	switch req.Order {
	case "dead-first":
		opts.Order = chain.OrderDeadFirst
	case "live-first":
		opts.Order = chain.OrderLiveFirst
	}
	return opts
}

func (s *Server) canChain(_ context.Context, req Request) (any, error) {
	a, b, err := pair(req)
	if err != nil {
		return nil, err
	}
	return s.sess.Engine().CanChain(a, b), nil
}

func (s *Server) findNextWords(_ context.Context, req Request) (any, error) {
	return s.sess.Engine().FindNextWords(req.Word, options(req)), nil
}

func (s *Server) findNextWordsPaginated(_ context.Context, req Request) (any, error) {
	return s.sess.Engine().FindNextWordsPaginated(req.Word, options(req), req.Exclude), nil
}

func (s *Server) findPreviousWords(_ context.Context, req Request) (any, error) {
	return s.sess.Engine().FindPreviousWords(req.Word, options(req)), nil
}

func (s *Server) findPreviousWordsPaginated(_ context.Context, req Request) (any, error) {
	return s.sess.Engine().FindPreviousWordsPaginated(req.Word, options(req), req.Exclude), nil
}

func (s *Server) validateChain(_ context.Context, req Request) (any, error) {
	if req.Strict {
		return s.sess.Engine().ValidateChainStrict(req.Words), nil
	}
	return s.sess.Engine().ValidateChain(req.Words), nil
}

func (s *Server) generateWordChains(_ context.Context, req Request) (any, error) {
	return s.sess.Engine().GenerateWordChains(req.Word, req.MaxChains, req.MaxLength), nil
}

func (s *Server) findChainsToDeadWords(_ context.Context, req Request) (any, error) {
	return s.sess.Engine().FindChainsToDeadWords(req.Word, req.MaxChains, req.MaxLength), nil
}

func (s *Server) longestChain(_ context.Context, req Request) (any, error) {
	return s.sess.Engine().LongestChain(req.Word, req.MaxLength), nil
}

func (s *Server) rankMoves(_ context.Context, req Request) (any, error) {
	return s.sess.Engine().RankMoves(req.Word, req.Limit), nil
}

func (s *Server) hasWord(_ context.Context, req Request) (any, error) {
	return s.sess.Store().HasWord(req.Word), nil
}

func (s *Server) isValidCompoundWord(_ context.Context, req Request) (any, error) {
	return s.sess.Language().IsValidWord(req.Word), nil
}

func (s *Server) validateWordComplete(_ context.Context, req Request) (any, error) {
	return s.sess.Store().CheckWord(req.Word), nil
}

func (s *Server) search(_ context.Context, req Request) (any, error) {
	return s.sess.Store().Search(req.Word, req.Limit), nil
}

func (s *Server) getStats(context.Context, Request) (any, error) {
	return s.sess.Store().Stats(), nil
}

func (s *Server) getUserWords(context.Context, Request) (any, error) {
	return s.sess.Store().UserWords(), nil
}

func (s *Server) getDeadWords(context.Context, Request) (any, error) {
	return s.sess.Store().DeadWords(), nil
}

func (s *Server) getHistory(context.Context, Request) (any, error) {
	return s.sess.Store().History(), nil
}

func (s *Server) getRandomWords(_ context.Context, req Request) (any, error) {
	n := req.Count
	if n <= 0 {
		n = req.Limit
	}
	return s.sess.Store().RandomWords(n), nil
}

func (s *Server) addWords(_ context.Context, req Request) (any, error) {
	return s.sess.Store().AddWords(words(req), true), nil
}

func (s *Server) removeWords(_ context.Context, req Request) (any, error) {
	return s.sess.Store().RemoveWords(words(req)), nil
}

func (s *Server) updateWord(_ context.Context, req Request) (any, error) {
	from, to, err := pair(req)
	if err != nil {
		return nil, err
	}
	return s.sess.Store().UpdateWord(from, to), nil
}

func (s *Server) updateDeadWords(context.Context, Request) (any, error) {
	return s.sess.Engine().UpdateDeadWords(), nil
}

func (s *Server) languageInfo() LanguageInfo {
	info := LanguageInfo{Language: s.sess.Language().String()}
	for _, l := range dictionary.Languages() {
		info.Available = append(info.Available, l.String())
	}
	return info
}

func (s *Server) setLanguage(ctx context.Context, req Request) (any, error) {
	tag := req.Language
	if tag == "" {
		tag = req.Word
	}
	if _, err := s.sess.SetLanguage(ctx, tag); err != nil {
		return nil, err
	}
	return s.languageInfo(), nil
}

func (s *Server) getLanguage(context.Context, Request) (any, error) {
	return s.languageInfo(), nil
}

func (s *Server) reload(ctx context.Context, _ Request) (any, error) {
	if err := s.sess.Reload(ctx); err != nil {
		return nil, err
	}
	return s.sess.Store().UserWords(), nil
}

func (s *Server) health(context.Context, Request) (any, error) {
	return HealthInfo{
		Status:   StatusOK,
		Language: s.sess.Language().String(),
		Words:    s.sess.Store().Len(),
		Requests: s.requests,
	}, nil
}
