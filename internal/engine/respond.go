package engine

import "go.uber.org/zap"

// Source tells which stage of a turn produced the reply.
type Source string

const (
	SourceKeyword  Source = "keyword"
	SourceMemory   Source = "memory"
	SourceFallback Source = "fallback"
	SourceFiller   Source = "filler"
)

// Response is the outcome of one turn.
type Response struct {
	Text    string `json:"text"`
	Source  Source `json:"source"`
	Keyword string `json:"keyword,omitempty"`
}

// Respond runs one conversational turn against st. It tries every ranked
// keyword, then memory recall, then the script's fallback keyword, and
// finally the filler phrase. It always returns a reply.
func (e *Engine) Respond(st *State, utterance string) Response {
	input, words := e.Normalize(utterance)
	candidates := e.RankKeywords(words)
	if ce := e.log.Check(zap.DebugLevel, "keywords ranked"); ce != nil {
		ce.Write(zap.String("input", input), zap.Any("candidates", candidates))
	}

	if e.policy == MemoryOnFirstKeyword {
		for _, c := range candidates {
			if e.hasMemory(c.Word) {
				e.remember(st, c.Word, input)
				break
			}
		}
	}

	for _, c := range candidates {
		text, out := e.resolve(st, c.Word, input, 0)
		switch out {
		case matched:
			if e.policy == MemoryOnResponse {
				e.remember(st, c.Word, input)
			}
			return Response{Text: text, Source: SourceKeyword, Keyword: c.Word}
		case overflow:
			return e.filler()
		}
	}

	if text, ok := st.Recall(); ok {
		return Response{Text: text, Source: SourceMemory}
	}

	if fb := e.fallback; fb != "" {
		text, out := e.resolve(st, fb, input, 0)
		if out == matched {
			return Response{Text: text, Source: SourceFallback, Keyword: fb}
		}
	}
	return e.filler()
}

func (e *Engine) filler() Response {
	return Response{Text: e.fillerText, Source: SourceFiller}
}
