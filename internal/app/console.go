package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	goosc "github.com/hypebeast/go-osc/osc"
)

// RunConsole listens on the OSC target port and prints every tracker
// message it receives, for eyeballing the wire traffic without the
// receiving application running.
func RunConsole(listen string) error {
	dispatcher := goosc.NewStandardDispatcher()
	if err := dispatcher.AddMsgHandler("*", func(msg *goosc.Message) {
		fmt.Printf("[OSC ] %-34s %s\n", msg.Address, formatArgs(msg.Arguments))
	}); err != nil {
		return err
	}

	server := &goosc.Server{
		Addr:       listen,
		Dispatcher: dispatcher,
	}

	log.Printf("console: listening for OSC on %s", server.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("console: shutting down")
		return nil
	}
}

func formatArgs(args []any) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		switch v := a.(type) {
		case float32:
			parts = append(parts, fmt.Sprintf("%8.4f", v))
		case float64:
			parts = append(parts, fmt.Sprintf("%8.4f", v))
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}
	return strings.Join(parts, "  ")
}
