// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"fmt"
	"strings"
)

// UnresolvedReferenceError occurs when a placeholder names a
// (section, key) pair no layer defines. In is the value the placeholder
// was written in.
type UnresolvedReferenceError struct {
	Ref Ref
	In  Ref
}

// Error implements the error interface.
func (e UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("value of %s references undefined key %s", e.In, e.Ref)
}

// CyclicReferenceError occurs when resolving a value requires resolving
// itself again. Chain holds the full reference chain in visitation
// order, ending with the revisited key.
type CyclicReferenceError struct {
	Chain []Ref
}

// Error implements the error interface.
func (e CyclicReferenceError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, r := range e.Chain {
		parts[i] = r.String()
	}
	return "cyclic reference: " + strings.Join(parts, " -> ")
}

// PlaceholderSyntaxError occurs when a value contains a malformed
// placeholder token, e.g. an unterminated ${ or an empty reference.
type PlaceholderSyntaxError struct {
	In     Ref
	Token  string
	Reason string
}

// Error implements the error interface.
func (e PlaceholderSyntaxError) Error() string {
	return fmt.Sprintf("bad placeholder %q in value of %s: %s", e.Token, e.In, e.Reason)
}

// Resolved returns the value of (section, key) with every ${section:key}
// placeholder recursively substituted against the merged value space.
// A bare ${key} placeholder resolves within the section containing it.
// Resolution of a given pair is memoized for the lifetime of the Config,
// so its result never depends on which key triggered it.
func (c *Config) Resolved(section, key string) (string, error) {
	ref := Ref{Section: section, Key: key}
	if !c.Has(section, key) {
		return "", NotFoundError{Ref: ref}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolve(ref, nil)
}

// resolve must be called with c.mu held. chain holds the refs currently
// being resolved, oldest first, not including ref itself.
func (c *Config) resolve(ref Ref, chain []Ref) (string, error) {
	if v, ok := c.resolved[ref]; ok {
		return v, nil
	}
	for _, r := range chain {
		if r == ref {
			return "", CyclicReferenceError{Chain: append(chain, ref)}
		}
	}

	out, err := c.expand(c.values[ref.Section][ref.Key], ref, append(chain, ref))
	if err != nil {
		return "", err
	}
	c.resolved[ref] = out
	return out, nil
}

// expand substitutes placeholders in raw, left to right. in is the ref
// whose value raw is; chain already includes it.
func (c *Config) expand(raw string, in Ref, chain []Ref) (string, error) {
	var b strings.Builder
	for i := 0; i < len(raw); {
		j := strings.IndexByte(raw[i:], '$')
		if j < 0 {
			b.WriteString(raw[i:])
			break
		}
		b.WriteString(raw[i : i+j])
		i += j

		// $$ escapes a literal dollar; a lone $ passes through.
		if i+1 < len(raw) && raw[i+1] == '$' {
			b.WriteByte('$')
			i += 2
			continue
		}
		if i+1 >= len(raw) || raw[i+1] != '{' {
			b.WriteByte('$')
			i++
			continue
		}

		end := strings.IndexByte(raw[i+2:], '}')
		if end < 0 {
			return "", PlaceholderSyntaxError{
				In:     in,
				Token:  raw[i:],
				Reason: "unterminated placeholder",
			}
		}
		token := raw[i+2 : i+2+end]

		ref, err := parseRef(token, in)
		if err != nil {
			return "", err
		}
		if !c.Has(ref.Section, ref.Key) {
			return "", UnresolvedReferenceError{Ref: ref, In: in}
		}

		sub, err := c.resolve(ref, chain)
		if err != nil {
			return "", err
		}
		b.WriteString(sub)
		i += 2 + end + 1
	}
	return b.String(), nil
}

// parseRef parses the inside of a ${...} token. A bare key references
// the section of the containing value.
func parseRef(token string, in Ref) (Ref, error) {
	section, key, explicit := strings.Cut(token, ":")
	if !explicit {
		section, key = in.Section, token
	}
	if section == "" || key == "" || strings.Contains(key, ":") {
		return Ref{}, PlaceholderSyntaxError{
			In:     in,
			Token:  "${" + token + "}",
			Reason: "expected ${section:key} or ${key}",
		}
	}
	return Ref{Section: section, Key: key}, nil
}
