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

package cli

// SynthCLIOptions captures the flags of the synth command.
type SynthCLIOptions struct {
	// Blueprint is a local path or a git::<url>//<path>?ref=<ref> location.
	Blueprint string

	// Format is the manifest encoding, "yaml" or "json".
	Format string

	// Output is the manifest file; empty writes to stdout.
	Output string

	// Project and Stack make up the naming prefix.
	Project string
	Stack   string

	// Variables are unparsed key=value strings for ${var.NAME}.
	Variables []string

	// Tags are unparsed key=value strings merged over the blueprint tags.
	Tags []string

	// ResolveImages looks up launch template images in EC2.
	ResolveImages bool
}
