package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
)

// maxFrameSize bounds how much a consumer reads from one connection.
const maxFrameSize = 4096

// Handler consumes one decoded command message.
type Handler interface {
	Handle(context.Context, Message)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(context.Context, Message)

func (f HandlerFunc) Handle(ctx context.Context, msg Message) {
	f(ctx, msg)
}

// Serve is the consumer side of the protocol: it accepts connections, reads each
// one until EOF, and hands the decoded message to handler. Malformed frames are
// dropped. Serve returns nil after context cancellation or listener close.
func Serve(ctx context.Context, listener net.Listener, handler Handler) error {
	var wg sync.WaitGroup

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				wg.Wait()
				return nil
			}
			return fmt.Errorf("accept IPC connection: %w", err)
		}

		wg.Add(1)
		go func(c net.Conn) {
			defer wg.Done()
			defer c.Close()

			frame, err := io.ReadAll(io.LimitReader(c, maxFrameSize))
			if err != nil {
				return
			}

			msg, err := ParseMessage(frame)
			if err != nil {
				return
			}
			handler.Handle(ctx, msg)
		}(conn)
	}
}
