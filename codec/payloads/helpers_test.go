package payloads

import (
	"testing"

	"github.com/icsmw/brec"
)

func newHeaderForTest(t *testing.T, p brec.Payload) (brec.PayloadHeader, []byte, error) {
	t.Helper()
	h, body, err := brec.NewPayloadHeader(p)
	return h, body, err
}

func decodeForTest(h brec.PayloadHeader, body []byte, expectedSig brec.ByteBlock, out brec.PayloadDecoder) error {
	return brec.ReadPayloadBody(h, body, expectedSig, out)
}
