/*
Copyright © 2026 Jayson Grace <jayson.e.grace@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package ec2

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/errors"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/naming"
)

// ErrNotRegularFile is returned when a file input is missing or not a regular file.
var ErrNotRegularFile = stderrors.New("not a regular file")

// KeyPairArgs configures a key pair. PublicKey wins over PublicKeyPath.
type KeyPairArgs struct {
	Name          string
	PublicKey     string
	PublicKeyPath string
	Tags          map[string]string
	Options       ir.Options
}

// KeyPair is a registered SSH public key.
type KeyPair struct {
	name   string
	handle ir.Handle
}

// PlanKeyPair builds the key pair declaration. The key material must already
// be in args.PublicKey.
func PlanKeyPair(n naming.Context, args KeyPairArgs) (ir.Declaration, error) {
	name := n.Name(args.Name)
	key := strings.TrimSpace(args.PublicKey)
	if key == "" {
		return ir.Declaration{}, fmt.Errorf("key pair %s: public key is empty", name)
	}
	return ir.Declaration{
		Name:    name,
		Spec:    ir.KeyPairSpec{KeyName: name, PublicKey: key, Tags: args.Tags},
		Options: args.Options,
	}, nil
}

// ReadPublicKey loads key material from a regular file.
func ReadPublicKey(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotRegularFile, path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap("read public key", path, err)
	}
	return string(data), nil
}

// NewKeyPair declares a key pair, reading PublicKeyPath when PublicKey is unset.
func NewKeyPair(ctx context.Context, scope *engine.Scope, args KeyPairArgs) (*KeyPair, error) {
	if args.PublicKey == "" && args.PublicKeyPath != "" {
		key, err := ReadPublicKey(args.PublicKeyPath)
		if err != nil {
			return nil, err
		}
		args.PublicKey = key
	}

	decl, err := PlanKeyPair(scope.Naming(), args)
	if err != nil {
		return nil, err
	}
	h, err := scope.DeclareOne(ctx, decl)
	if err != nil {
		return nil, err
	}
	return &KeyPair{name: decl.Name, handle: h}, nil
}

// Name returns the key pair's resource name.
func (k *KeyPair) Name() string { return k.name }

// Handle returns the declared key pair.
func (k *KeyPair) Handle() ir.Handle { return k.handle }

// KeyName references the registered key name.
func (k *KeyPair) KeyName() ir.Ref { return k.handle.Attr(ir.AttrKeyName) }
