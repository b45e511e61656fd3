package engines

import (
	log "github.com/sirupsen/logrus"
)

// Completer turns a single system/user exchange into the text of the
// model's reply.
type Completer struct {
	llm LLM
}

func (c *Completer) Complete(systemPrompt, userInput string) (string, error) {
	response, err := c.llm.Chat(&ChatPrompt{
		History: []*ChatMessage{
			{
				Role: ConvRoleSystem,
				Text: systemPrompt,
			},
			{
				Role: ConvRoleUser,
				Text: userInput,
			},
		},
	})
	if err != nil {
		log.WithError(err).Error("LLM API error")
		return "", ErrModelCallFailed
	}
	if response == nil {
		log.Error("LLM API error: empty response")
		return "", ErrModelCallFailed
	}
	return response.Text, nil
}

func NewCompleter(llm LLM) *Completer {
	return &Completer{
		llm: llm,
	}
}

// NewModelClient returns a Completer backed by a GPT engine.
func NewModelClient(config GPTConfig) *Completer {
	return NewCompleter(NewGPTEngine(config))
}
