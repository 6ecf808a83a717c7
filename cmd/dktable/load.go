// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

func loadFile(t *stringTable, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening triples")
	}
	defer f.Close()
	return load(t, f)
}

// load reads k1<TAB>k2<TAB>value lines from r into t. A later line for the
// same key pair overwrites an earlier one.
func load(t *stringTable, r io.Reader) error {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = 3
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading triples")
		}
		if err := t.Set(rec[0], rec[1], rec[2]); err != nil {
			line, _ := cr.FieldPos(0)
			return errors.Wrapf(err, "line %d", line)
		}
	}
}
