/*
Package enclaveml implements the trust-boundary session protocol of an
Open Enclave based ML inference proof of concept: a minimal trusted side
that keeps only session bookkeeping, and an untrusted host side that owns
the actual model runtime, bridged by a strict copy-in/copy-out call
discipline.

The trusted side is the Enclave. It exposes three entry points
(InitializeMLContext, Infer, TerminateMLContext) plus GetEvidence, and
for every session retains exactly one piece of state: the host-side
session handle. The untrusted side is the Host, which implements the
paired callbacks (LoadModel, RunInference, ReleaseSession) against its
own session table and an opaque inference Engine.

External callers never touch the Enclave directly; they go through an
EnclaveProxy, which enforces the marshalling contract the EDL-generated
stubs enforce in the original: parameter validation against declared
bounds, buffer copies in both directions, and a transport-level error
class distinct from remote logic failure.

Both binaries are configured through a pretty straightforward YAML
configuration file; see Configuration.
*/
package enclaveml
