// Command enclaved hosts the trust boundary: it creates the enclave in
// simulation or hardware mode and serves the four boundary calls as
// the Inference gRPC service. With -attest it prints one evidence blob
// as hex and exits, which is what the verifier tooling consumes.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/status"

	enclaveml "github.com/Lkishor123/openenclave-ml-poc"
)

var (
	config = flag.String("config", "config.yaml", "YAML configuration file")
	attest = flag.Bool("attest", false, "Print attestation evidence as hex and exit")
)

type server struct {
	proxy *enclaveml.EnclaveProxy
}

func (s *server) Initialize(ctx context.Context, in *enclaveml.InitializeRequest) (*enclaveml.InitializeReply, error) {
	log.Infof("Initializing ML context (%d model bytes).", len(in.Model))
	handle, err := s.proxy.InitializeMLContext(in.Model)
	if err != nil {
		return nil, rpcError(err)
	}
	return &enclaveml.InitializeReply{SessionHandle: uint64(handle)}, nil
}

func (s *server) Infer(ctx context.Context, in *enclaveml.InferRequest) (*enclaveml.InferReply, error) {
	out, n, err := s.proxy.Infer(
		enclaveml.EnclaveHandle(in.SessionHandle), in.Input, int(in.OutputCapacity))
	if enclaveml.IsResult(err, enclaveml.BufferTooSmall) {
		// First-class status, not an RPC failure: the reply carries
		// the required size so the caller can retry with a larger
		// capacity. The output field stays empty.
		return &enclaveml.InferReply{ActualSize: uint64(n)}, nil
	}
	if err != nil {
		return nil, rpcError(err)
	}
	return &enclaveml.InferReply{Output: out, ActualSize: uint64(n)}, nil
}

func (s *server) Terminate(ctx context.Context, in *enclaveml.TerminateRequest) (*enclaveml.TerminateReply, error) {
	log.Infof("Terminating ML context %d.", in.SessionHandle)
	if err := s.proxy.TerminateMLContext(enclaveml.EnclaveHandle(in.SessionHandle)); err != nil {
		return nil, rpcError(err)
	}
	return &enclaveml.TerminateReply{}, nil
}

func (s *server) GetEvidence(ctx context.Context, in *enclaveml.EvidenceRequest) (*enclaveml.EvidenceReply, error) {
	evidence, err := s.proxy.GetEvidence()
	if err != nil {
		return nil, rpcError(err)
	}
	return &enclaveml.EvidenceReply{Evidence: evidence}, nil
}

// rpcError maps a boundary error onto a gRPC status, keeping the
// layer and result visible in the message for diagnosing which hop
// failed.
func rpcError(err error) error {
	var code codes.Code
	switch enclaveml.ResultOf(err) {
	case enclaveml.InvalidParameter:
		code = codes.InvalidArgument
	case enclaveml.NotFound:
		code = codes.NotFound
	case enclaveml.OutOfMemory:
		code = codes.ResourceExhausted
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}

func main() {
	flag.Parse()

	cfg, err := enclaveml.LoadConfiguration(*config)
	if err != nil {
		log.WithError(err).Fatal("Could not load the configuration.")
	}

	if !cfg.Simulate {
		// The native ONNX/GGML runtime and the hardware attester are
		// linked in by the cgo build of the host; this build carries
		// only the simulated ones.
		log.Fatal("This build supports simulation mode only; set simulate: true.")
	}
	engine := enclaveml.NewSimulatedEngine(cfg.EmbeddingDim)
	attester := enclaveml.NewSimulatedAttester("enclaved")

	host := enclaveml.NewHost(engine, cfg.MaxSessions)
	proxy := enclaveml.CreateEnclave(host, attester, enclaveml.EnclaveOptions{
		Simulate:    cfg.Simulate,
		MaxSessions: cfg.MaxSessions,
		Limits:      cfg.Limits(),
	})

	if *attest {
		evidence, err := proxy.GetEvidence()
		if err != nil {
			log.WithError(err).Fatal("Could not produce attestation evidence.")
		}
		fmt.Fprintln(os.Stdout, hex.EncodeToString(evidence))
		return
	}

	var opts []grpc.ServerOption
	if cfg.TLSCert != "" {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			log.WithError(err).Fatal("Could not parse the TLS certificates.")
		}
		opts = append(opts, grpc.Creds(creds))
	} else {
		log.Warn("Serving without TLS; acceptable on loopback only.")
	}

	srv := grpc.NewServer(opts...)
	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.WithError(err).Fatalf("Could not listen on %s.", cfg.ListenAddr)
	}

	enclaveml.RegisterInferenceServer(srv, &server{proxy: proxy})
	log.Infof("enclaved listening on %s.", cfg.ListenAddr)

	go func() {
		if err := srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
			log.WithError(err).Fatal("Serve failed.")
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	srv.Stop()
}
