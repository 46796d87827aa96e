package rag

import (
	"context"
	"fmt"
	"strings"

	"screenrag/internal/contextutil"
)

// answerPromptTemplate is the fixed QA instruction. When the context is
// empty it still executes with an empty context section; the model is
// expected to say it doesn't know.
const answerPromptTemplate = `You are an assistant for question-answering tasks. Use the following pieces of retrieved context to answer the question. If you don't know the answer, just say that you don't know. Use three sentences maximum and keep the answer concise.
Question: %s
Context: %s
Answer:`

// documentSeparator keeps retrieved documents clearly apart in the prompt.
const documentSeparator = "\n\n---\n\n"

// generateAnswer produces the final answer from the original query and the
// retrieved documents with a single completion call.
func (e *engine) generateAnswer(ctx context.Context, st *State) error {
	logger := contextutil.LoggerFromContext(ctx)

	texts := make([]string, 0, len(st.Context))
	for _, doc := range st.Context {
		texts = append(texts, doc.Text)
	}
	contextText := strings.Join(texts, documentSeparator)

	answer, err := e.llm.Chat(ctx, fmt.Sprintf(answerPromptTemplate, st.Query, contextText))
	if err != nil {
		return fmt.Errorf("answer generation failed: %w", err)
	}

	st.Answer = strings.TrimSpace(answer)
	logger.InfoContext(ctx, "answer generated", "documents", len(st.Context), "answer_length", len(st.Answer))
	return nil
}
