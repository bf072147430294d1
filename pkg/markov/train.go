package markov

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Record increments the link from prev to next, creating a node for next if
// it is new. The prev token must already have a node; the barrier always does.
func (c *Chain) Record(prev, next string) error {
	from, ok := c.index[prev]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownToken, prev)
	}
	to := c.ensureNode(next)
	c.nodes[from].record(to, 1)
	return nil
}

// ingester walks the chain while recording links. It starts at the barrier.
type ingester struct {
	c         *Chain
	cursor    string
	sentences int64
}

func (in *ingester) add(token string) error {
	if token == Terminator {
		return in.closeSentence()
	}
	if err := in.c.Record(in.cursor, token); err != nil {
		return err
	}
	in.cursor = token
	return nil
}

// closeSentence links the cursor to the barrier. Nothing is recorded for an
// empty sentence.
func (in *ingester) closeSentence() error {
	if in.cursor == BarrierTokenText {
		return nil
	}
	if err := in.c.Record(in.cursor, BarrierTokenText); err != nil {
		return err
	}
	in.cursor = BarrierTokenText
	in.sentences++
	return nil
}

// Ingest records a sequence of already tokenized words, starting from the
// barrier. The Terminator token links the current word to the barrier and
// restarts the walk there. Counts accumulate across calls.
func (c *Chain) Ingest(tokens []string) error {
	in := &ingester{c: c, cursor: BarrierTokenText}
	for _, token := range tokens {
		if err := in.add(token); err != nil {
			return err
		}
	}
	return nil
}

// Train tokenizes a stream of text with the chain's tokenizer and ingests it.
// A trailing sentence without a terminator is closed at the end of the stream.
func (c *Chain) Train(data io.Reader) error {
	stream := c.tokenizer.NewStream(data)
	in := &ingester{c: c, cursor: BarrierTokenText}
	var tokenCount int64

	for {
		token, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("tokenizer error: %w", err)
		}
		tokenCount++

		text := token.Text
		if token.EOC {
			text = Terminator
		}
		if err = in.add(text); err != nil {
			return fmt.Errorf("ingest error: %w", err)
		}
	}

	if err := in.closeSentence(); err != nil {
		return fmt.Errorf("final sentence processing error: %w", err)
	}

	c.logger.Info("Training completed",
		slog.Int64("tokens_processed", tokenCount),
		slog.Int64("sentences_processed", in.sentences),
		slog.Int("vocab_size", c.Len()),
	)

	return nil
}
