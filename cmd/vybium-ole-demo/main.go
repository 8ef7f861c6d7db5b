package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"

	vybiumole "github.com/vybium/vybium-ole/pkg/vybium-ole"
)

// Input format: one JSON object on stdin holding the three vectors in
// decimal strings. Vectors must have equal length t <= A/2.
type EvalInput struct {
	A []string `json:"a"`
	B []string `json:"b"`
	X []string `json:"x"`
}

type EvalOutput struct {
	Y []string `json:"y"`
}

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)

	if !scanner.Scan() {
		fatal("Failed to read evaluation input")
	}
	var input EvalInput
	if err := json.Unmarshal(scanner.Bytes(), &input); err != nil {
		fatal(fmt.Sprintf("Failed to parse input: %v", err))
	}
	if len(input.A) != len(input.B) || len(input.A) != len(input.X) {
		fatal("Vectors a, b, x must have equal length")
	}

	a, err := convertFieldElements(input.A)
	if err != nil {
		fatal(fmt.Sprintf("Failed to parse a: %v", err))
	}
	b, err := convertFieldElements(input.B)
	if err != nil {
		fatal(fmt.Sprintf("Failed to parse b: %v", err))
	}
	x, err := convertFieldElements(input.X)
	if err != nil {
		fatal(fmt.Sprintf("Failed to parse x: %v", err))
	}

	// Both parties run in-process over a pair of pipes, the same wire
	// layout they would use over a socket.
	senderRead, receiverWrite := io.Pipe()
	receiverRead, senderWrite := io.Pipe()

	config := vybiumole.DefaultConfig()

	logStderr("Creating sender session...")
	sender, err := vybiumole.NewSender(config, vybiumole.NewChannel(senderRead, senderWrite), nil)
	if err != nil {
		fatal(fmt.Sprintf("Failed to create sender: %v", err))
	}

	logStderr("Creating receiver session...")
	receiver, err := vybiumole.NewReceiver(config.Clone(), vybiumole.NewChannel(receiverRead, receiverWrite), nil)
	if err != nil {
		fatal(fmt.Sprintf("Failed to create receiver: %v", err))
	}

	ctx := context.Background()
	senderDone := make(chan error, 1)
	go func() {
		senderDone <- sender.Input(ctx, a, b)
	}()

	logStderr(fmt.Sprintf("Running OLE over %d positions...", len(x)))
	y, err := receiver.Input(ctx, x)
	if err != nil {
		fatal(fmt.Sprintf("Receiver failed: %v", err))
	}
	if err := <-senderDone; err != nil {
		fatal(fmt.Sprintf("Sender failed: %v", err))
	}

	logStderr("Evaluation completed")

	output := EvalOutput{Y: make([]string, len(y))}
	for i, e := range y {
		output.Y[i] = e.String()
	}
	outBytes, err := json.Marshal(output)
	if err != nil {
		fatal(fmt.Sprintf("Failed to serialize result: %v", err))
	}
	os.Stdout.Write(outBytes)
	os.Stdout.Write([]byte("\n"))
}

func convertFieldElements(values []string) ([]*vybiumole.FieldElement, error) {
	result := make([]*vybiumole.FieldElement, len(values))
	for i, val := range values {
		v, ok := new(big.Int).SetString(val, 10)
		if !ok {
			return nil, fmt.Errorf("invalid decimal value at index %d: %q", i, val)
		}
		result[i] = vybiumole.NewFieldElement(v)
	}
	return result, nil
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "vybium-ole:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
