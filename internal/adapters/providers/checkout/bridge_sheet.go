package checkout

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bookvenue/client/internal/domain/entities"
	"github.com/bookvenue/client/internal/domain/providers"
)

// BridgeSheet hands checkout options to an external host over a line-oriented
// JSON stream and waits for the host's verdict. Each request is one JSON line on
// out; the reply is one JSON line on in, either a payment result or
// {"code": ..., "description": ...}.
//
// A single reader goroutine owns in. A reply that arrives after its Open gave up
// is handed to the next Open.
type BridgeSheet struct {
	mu      sync.Mutex
	in      *bufio.Reader
	out     io.Writer
	start   sync.Once
	replies chan bridgeLine
}

type bridgeLine struct {
	line []byte
	err  error
}

// NewBridgeSheet creates a bridge sheet over the given streams
func NewBridgeSheet(in io.Reader, out io.Writer) *BridgeSheet {
	return &BridgeSheet{
		in:      bufio.NewReader(in),
		out:     out,
		replies: make(chan bridgeLine),
	}
}

type bridgeReply struct {
	entities.PaymentResult
	Code        string `json:"code"`
	Description string `json:"description"`
}

// readReplies feeds every line of in to replies until the stream ends
func (b *BridgeSheet) readReplies() {
	defer close(b.replies)
	for {
		line, err := b.in.ReadBytes('\n')
		b.replies <- bridgeLine{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// Open writes opts and blocks for one reply. Only one sheet can be open at a time.
func (b *BridgeSheet) Open(ctx context.Context, opts entities.CheckoutOptions) (*entities.PaymentResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	payload, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout options: %w", err)
	}
	if _, err := fmt.Fprintf(b.out, "%s\n", payload); err != nil {
		return nil, fmt.Errorf("failed to write checkout options: %w", err)
	}

	b.start.Do(func() { go b.readReplies() })

	var r bridgeLine
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case got, ok := <-b.replies:
		if !ok {
			return nil, fmt.Errorf("failed to read checkout reply: %w", io.ErrUnexpectedEOF)
		}
		r = got
	}
	if r.err != nil && !(errors.Is(r.err, io.EOF) && len(r.line) > 0) {
		return nil, fmt.Errorf("failed to read checkout reply: %w", r.err)
	}

	var reply bridgeReply
	if err := json.Unmarshal(r.line, &reply); err != nil {
		return nil, fmt.Errorf("failed to decode checkout reply: %w", err)
	}
	if reply.Code != "" {
		return nil, &providers.SheetError{Code: reply.Code, Description: reply.Description}
	}
	if reply.PaymentID == "" {
		return nil, errors.New("checkout reply has no payment id")
	}
	return &reply.PaymentResult, nil
}
