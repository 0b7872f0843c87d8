// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gds

import "fmt"

// NotFoundError reports a lookup of an algorithm name that is not in
// the catalog. Listing carries the rendered catalog so that callers
// surfacing the error can show the user what is available.
type NotFoundError struct {
	Name    string
	Listing string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("algorithm %q is not in the catalog; pass a category to ListAlgorithms to browse the available algorithms", e.Name)
}

// ValidationError reports a run request that cannot proceed as given,
// for example parameters whose defaults cannot be inferred. Reference
// points at the algorithm's documentation when one is known.
type ValidationError struct {
	Algorithm string
	Reason    string
	Reference string
}

func (e *ValidationError) Error() string {
	if e.Reference == "" {
		return fmt.Sprintf("cannot run %s: %s", e.Algorithm, e.Reason)
	}
	return fmt.Sprintf("cannot run %s: %s (see %s)", e.Algorithm, e.Reason, e.Reference)
}
