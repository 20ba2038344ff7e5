package enclaveml

import (
	"crypto/aes"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/aead/cmac"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// EvidenceFormat names one attestation evidence format, standing in
// for the OE format UUIDs.
type EvidenceFormat string

const (
	// FormatSGXECDSA is the remote-capable DCAP/ECDSA-p256 quote.
	FormatSGXECDSA EvidenceFormat = "sgx-ecdsa-p256"

	// FormatLocalReport is the always-available local report, only
	// verifiable on the same platform.
	FormatLocalReport EvidenceFormat = "sgx-local-report"
)

// formatPreference is tried strongest first: a remote-capable quote if
// the platform can produce one, falling back to a local report.
var formatPreference = []EvidenceFormat{FormatSGXECDSA, FormatLocalReport}

// Attester produces evidence blobs proving the identity of the
// execution context. Making this an interface keeps the negotiation
// and the protocol testable without enclave hardware.
type Attester interface {
	// Supports reports whether the platform can produce evidence in
	// the given format.
	Supports(format EvidenceFormat) bool

	// Evidence produces an opaque evidence blob in the given format.
	Evidence(format EvidenceFormat) ([]byte, error)
}

// GetEvidence negotiates a format from the preference list and asks
// the attester for evidence in the first supported one.
func GetEvidence(a Attester) ([]byte, error) {
	if a == nil {
		return nil, resultError(LayerEnclave, Failure, "no attester available")
	}
	for _, format := range formatPreference {
		if !a.Supports(format) {
			continue
		}
		evidence, err := a.Evidence(format)
		if err != nil {
			return nil, errors.Wrapf(err, "evidence in format %s", format)
		}
		return evidence, nil
	}
	return nil, resultError(LayerEnclave, Failure, "no supported evidence format")
}

// simulatedReportKey plays the role of the report key an enclave would
// ask the CPU for. In simulation mode there is no hardware secret, so
// the key is fixed, exactly as debug report MACs are worthless.
var simulatedReportKey = make([]byte, 16)

const simulatedReportMagic = "OEML-SIM-REPORT1"

// SimulatedAttester produces local-report-shaped evidence without
// enclave hardware: a report body carrying a measurement and the
// creation time, MACed with AES-CMAC the way SGX MACs local reports.
// It never claims to support remote-capable formats.
type SimulatedAttester struct {
	measurement [32]byte
	log         *log.Entry
}

// NewSimulatedAttester returns an attester whose reported measurement
// is derived from identity (typically the binary name and version).
func NewSimulatedAttester(identity string) *SimulatedAttester {
	return &SimulatedAttester{
		measurement: sha256.Sum256([]byte(identity)),
		log:         log.WithField("side", "attester"),
	}
}

func (a *SimulatedAttester) Supports(format EvidenceFormat) bool {
	return format == FormatLocalReport
}

func (a *SimulatedAttester) Evidence(format EvidenceFormat) ([]byte, error) {
	if format != FormatLocalReport {
		return nil, resultError(LayerEnclave, Failure, "unsupported format %s", format)
	}

	body := make([]byte, 0, 16+32+8)
	body = append(body, simulatedReportMagic...)
	body = append(body, a.measurement[:]...)
	body = binary.LittleEndian.AppendUint64(body, uint64(time.Now().Unix()))

	mac, err := cmacWithKey(body, simulatedReportKey)
	if err != nil {
		return nil, errors.Wrap(err, "MAC the simulated report")
	}
	a.log.Debug("Produced simulated local report.")
	return append(body, mac...), nil
}

// VerifySimulatedEvidence checks the MAC and magic of a simulated
// report and returns its measurement. It exists for the verifier side
// of a simulated deployment and for tests; it proves nothing.
func VerifySimulatedEvidence(evidence []byte) ([]byte, error) {
	bodyLen := len(simulatedReportMagic) + 32 + 8
	if len(evidence) != bodyLen+aes.BlockSize {
		return nil, errors.Errorf("evidence is %d bytes, want %d", len(evidence), bodyLen+aes.BlockSize)
	}
	if string(evidence[:len(simulatedReportMagic)]) != simulatedReportMagic {
		return nil, errors.New("bad report magic")
	}
	mac, err := cmacWithKey(evidence[:bodyLen], simulatedReportKey)
	if err != nil {
		return nil, err
	}
	if !cmacEqual(mac, evidence[bodyLen:]) {
		return nil, errors.New("report MAC mismatch")
	}
	measurement := make([]byte, 32)
	copy(measurement, evidence[len(simulatedReportMagic):])
	return measurement, nil
}

func cmacWithKey(msg, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "create AES for CMAC")
	}
	return cmac.Sum(msg, block, aes.BlockSize)
}

func cmacEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
