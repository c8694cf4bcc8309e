// Copyright 2025 Poiesic Systems
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


// Package convert decodes raw corpus files into clean text.
//
// It provides:
//   - multi-encoding detection over a fixed, ordered encoding list
//     (utf-8, utf-8-sig, cp1256, iso-8859-6)
//   - a line-grammar parser for the heritage markup used by digitized
//     classical-Arabic texts, producing body text plus structured
//     header metadata
//   - a plain-text pass-through converter
//   - a Registry mapping file extensions to converters
//
// Converters never return Go errors or panic across the package
// boundary: every failure (unreadable file, undecodable bytes, empty
// parse result) is reported as a structured failure inside the
// ConversionResult.
package convert
