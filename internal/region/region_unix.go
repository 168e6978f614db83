//go:build unix

package region

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// New maps a fresh region, copies the secret behind the public page and, if
// requested, revokes access to the secret pages.
//
// Close must be called to release the mapping.
func New(opts Options) (*Region, error) {
	if len(opts.Secret) == 0 {
		return nil, ErrEmptySecret
	}

	ps := pageSize()
	size := layout(len(opts.Secret), ps)

	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, newSetupError("mmap region", size, err, "check RLIMIT_AS and available memory")
	}

	r := &Region{
		mem:          mem,
		secretLen:    len(opts.Secret),
		secretOffset: uintptr(ps),
	}

	// The public byte stays zero; touch it so the page is resident.
	r.mem[0] = 0
	copy(r.mem[ps:], opts.Secret)

	if opts.Protect {
		if err := unix.Mprotect(r.mem[ps:], unix.PROT_NONE); err != nil {
			_ = unix.Munmap(mem)
			return nil, newSetupError("mprotect secret page", size-ps, err, "run without --protect")
		}
		r.protected = true
	}

	return r, nil
}

// Close unmaps the region. Close is idempotent.
func (r *Region) Close() error {
	if r.mem == nil {
		return nil
	}
	err := unix.Munmap(r.mem)
	r.mem = nil
	if err != nil {
		return fmt.Errorf("munmap region: %w", err)
	}
	return nil
}
