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
	"encoding/base64"
	"os"
	"strings"

	"github.com/cowdogmoo/resource-adapter/errors"
)

// UserData accumulates an instance boot script. Fragments keep their call order.
type UserData struct {
	script strings.Builder
}

// NewUserData returns an empty script.
func NewUserData() *UserData { return &UserData{} }

// Execute appends the contents of the script at path.
func (u *UserData) Execute(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap("read user data script", path, err)
	}
	u.script.Write(data)
	return nil
}

// Append adds lines joined by newlines, followed by a trailing newline.
func (u *UserData) Append(lines ...string) *UserData {
	u.script.WriteString(strings.Join(lines, "\n"))
	u.script.WriteString("\n")
	return u
}

// String returns the accumulated script.
func (u *UserData) String() string { return u.script.String() }

// Len returns the script length in bytes.
func (u *UserData) Len() int { return u.script.Len() }

// B64Encode returns the script base64-encoded, as launch templates expect it.
func (u *UserData) B64Encode() string {
	return base64.StdEncoding.EncodeToString([]byte(u.script.String()))
}
