//go:build !cgo

package session

import "errors"

func openKuzu(string) (Store, error) {
	return nil, errors.New("session: kuzu backend requires a cgo build")
}
