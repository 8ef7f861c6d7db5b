// Package vybiumole provides a two-party Oblivious Linear Evaluation
// (OLE) protocol over a 127-bit prime field.
//
// In OLE a Sender holds two vectors a, b and a Receiver holds a vector
// x, all of equal length t. After one interactive invocation the
// Receiver learns y = a*x + b componentwise while learning nothing
// else about a or b, and the Sender learns nothing about x.
//
// # Features
//
// - Prime field arithmetic with radix-2 and radix-3 FFT subgroups
// - Reed-Solomon encoding under a secret puncturing set
// - Packed Shamir secret sharing over the radix-3 subgroup
// - Diffie-Hellman base oblivious transfer over the same field
// - Malicious-security commitment and two-point identity checks
//
// # Quick Start
//
// The two parties run over any bidirectional byte stream. Each wraps
// its ends into a channel and drives its role:
//
//	// Sender side
//	ch := vybiumole.NewChannel(conn, conn)
//	sender, err := vybiumole.NewSender(vybiumole.DefaultConfig(), ch, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := sender.Input(ctx, a, b); err != nil {
//		log.Fatal(err)
//	}
//
//	// Receiver side
//	ch := vybiumole.NewChannel(conn, conn)
//	receiver, err := vybiumole.NewReceiver(vybiumole.DefaultConfig(), ch, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	y, err := receiver.Input(ctx, x)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// A session supports repeated Input calls until the first
// protocol-level failure, which aborts the session permanently. An
// input length error is reported before the call starts and leaves the
// session usable.
package vybiumole
