package brec

// BlockRegistry maps a block schema's signature to its constant on-wire
// size, so StreamReader can split a packet's concatenated blocks section
// into individual ReferredBlock views without knowing each block's
// concrete Go type. A production caller populates this once at startup
// from its generated (or hand-written) block schemas; this library does
// not discover it automatically since the schema generator is out of
// scope.
type BlockRegistry struct {
	ssizeBySig map[[4]byte]uint64
}

// NewBlockRegistry returns an empty BlockRegistry.
func NewBlockRegistry() *BlockRegistry {
	return &BlockRegistry{ssizeBySig: make(map[[4]byte]uint64)}
}

// Register records the on-wire size for sig. It overwrites any previous
// entry for the same signature.
func (reg *BlockRegistry) Register(sig [4]byte, ssize uint64) {
	reg.ssizeBySig[sig] = ssize
}

// SSizeOf returns the registered on-wire size for sig and whether it was found.
func (reg *BlockRegistry) SSizeOf(sig [4]byte) (uint64, bool) {
	v, ok := reg.ssizeBySig[sig]
	return v, ok
}

// RegisterSig is Register for a signature held as a ByteBlock (as produced
// by wrapping BlockSignature's result in NewByteBlock4, or read back off an
// already-validated wire value). It fails with ErrFailExtractByteBlock if
// sig is not a 4-byte ByteBlock — SIG_B is always exactly 4 bytes.
func (reg *BlockRegistry) RegisterSig(sig ByteBlock, ssize uint64) error {
	arr, err := sig.As4()
	if err != nil {
		return err
	}
	reg.Register(arr, ssize)
	return nil
}
