// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mia-platform/unilog"
)

// listenOptions holds the options set for the current listen run.
type listenOptions struct {
	lock sync.Mutex
}

// execute runs the receiver until the context is canceled or an interrupt
// signal arrives.
func (o *listenOptions) execute(ctx context.Context) error {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	rcv, err := newReceiver(ctx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rcv.StartAsync(ctx)
	log := unilog.FromContext(ctx)
	log.Info("receiver started")

	<-ctx.Done()

	log.Info("shutting down receiver")
	return rcv.Stop()
}
