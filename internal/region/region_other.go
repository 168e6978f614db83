//go:build !unix

package region

// New allocates the region on the Go heap. Page protection is unavailable,
// so Protect fails with ErrProtectUnsupported.
func New(opts Options) (*Region, error) {
	if len(opts.Secret) == 0 {
		return nil, ErrEmptySecret
	}

	ps := pageSize()
	size := layout(len(opts.Secret), ps)

	if opts.Protect {
		return nil, newSetupError("mprotect secret page", size-ps, ErrProtectUnsupported, "run without --protect")
	}

	r := &Region{
		mem:          make([]byte, size),
		secretLen:    len(opts.Secret),
		secretOffset: uintptr(ps),
	}
	copy(r.mem[ps:], opts.Secret)
	return r, nil
}

// Close releases the region.
func (r *Region) Close() error {
	r.mem = nil
	return nil
}
