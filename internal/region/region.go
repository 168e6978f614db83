package region

import (
	"os"
	"unsafe"
)

// Options configures a demonstration region.
type Options struct {
	// Secret is copied to the start of the second page. Must be non-empty.
	Secret []byte

	// Protect revokes all access to the secret pages (PROT_NONE) after the
	// copy, so any architectural read of the secret faults.
	Protect bool
}

// Region is a page-aligned buffer laid out as
//
//	page 0:     public page, byte 0 readable and zero
//	page 1..n:  secret bytes at SecretOffset
//
// Byte 0 is the one location the bounds check admits. Everything from
// SecretOffset on is what the oracle recovers.
type Region struct {
	mem          []byte
	secretLen    int
	protected    bool
	secretOffset uintptr
}

// Base returns the start of the region. Index 0 from here is legitimate.
func (r *Region) Base() unsafe.Pointer {
	return unsafe.Pointer(&r.mem[0])
}

// SecretOffset returns the offset from Base at which the secret starts.
func (r *Region) SecretOffset() uintptr {
	return r.secretOffset
}

// SecretLen returns the number of secret bytes placed in the region.
func (r *Region) SecretLen() int {
	return r.secretLen
}

// Size returns the total size of the mapping in bytes.
func (r *Region) Size() int {
	return len(r.mem)
}

// Protected reports whether the secret pages are PROT_NONE.
func (r *Region) Protected() bool {
	return r.protected
}

// Public returns the legitimately readable byte at offset 0.
func (r *Region) Public() byte {
	return r.mem[0]
}

// layout returns the mapping size for a secret of n bytes: one public page
// plus enough whole pages to hold the secret.
func layout(n, pageSize int) int {
	pages := (n + pageSize - 1) / pageSize
	return (1 + pages) * pageSize
}

func pageSize() int {
	return os.Getpagesize()
}
