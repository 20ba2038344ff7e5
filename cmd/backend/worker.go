package main

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	enclaveml "github.com/Lkishor123/openenclave-ml-poc"
)

const rpcTimeout = 60 * time.Second

// worker holds the backend's one long-lived inference session on
// enclaved. The protocol defines no behavior for concurrent calls on a
// handle, so every request serializes through the mutex; throughput is
// traded for correctness.
type worker struct {
	mu     sync.Mutex
	conn   *grpc.ClientConn
	client enclaveml.InferenceClient
	handle uint64

	// initial output capacity in bytes; grown on retry
	capacity int
}

// startWorker dials enclaved, sends the model bytes to initialize, and
// keeps the returned session handle for the life of the process.
func startWorker(addr string, model []byte, embeddingDim int) (*worker, error) {
	conn, err := grpc.Dial(addr, grpc.WithInsecure())
	if err != nil {
		return nil, errors.Wrapf(err, "dial enclaved at %s", addr)
	}
	client := enclaveml.NewInferenceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	reply, err := client.Initialize(ctx, &enclaveml.InitializeRequest{Model: model})
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "initialize ML context")
	}
	if reply.SessionHandle == 0 {
		conn.Close()
		return nil, errors.New("enclaved returned session handle 0")
	}

	log.Infof("Initialized session %d on %s.", reply.SessionHandle, addr)
	return &worker{
		conn:     conn,
		client:   client,
		handle:   reply.SessionHandle,
		capacity: embeddingDim * 4,
	}, nil
}

// embed runs one inference over a flat token buffer and returns the
// raw embedding bytes. When the declared capacity turns out too small
// the reply carries the required size and the call is retried once
// with that capacity.
func (w *worker) embed(tokens []byte) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for attempt := 0; attempt < 2; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
		reply, err := w.client.Infer(ctx, &enclaveml.InferRequest{
			SessionHandle:  w.handle,
			Input:          tokens,
			OutputCapacity: uint64(w.capacity),
		})
		cancel()
		if err != nil {
			return nil, errors.Wrap(err, "infer")
		}
		if int(reply.ActualSize) > w.capacity {
			// Buffer too small: the output field is empty and
			// ActualSize is the true required size.
			log.Infof("Growing output capacity %d -> %d.", w.capacity, reply.ActualSize)
			w.capacity = int(reply.ActualSize)
			continue
		}
		return reply.Output[:reply.ActualSize], nil
	}
	return nil, errors.New("output capacity still too small after retry")
}

// close terminates the session and drops the connection. Termination
// is attempted even on shaky connections so no host-side session
// outlives the process by accident.
func (w *worker) close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	if _, err := w.client.Terminate(ctx, &enclaveml.TerminateRequest{SessionHandle: w.handle}); err != nil {
		log.WithError(err).Error("Could not terminate the session cleanly.")
	} else {
		log.Infof("Terminated session %d.", w.handle)
	}
	w.conn.Close()
}
