// Copyright 2025 walteh LLC
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

package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

var sizeUnits = []string{"TB", "GB", "MB", "KB"}

// 📏 HumanSize renders a byte count on a 1024 scale with up to two decimals.
// A value is only promoted to a unit once it is strictly larger than one of it.
func HumanSize(bytes int64) string {
	unit := int64(1) << 40
	for _, name := range sizeUnits {
		if bytes > unit {
			return fmt.Sprintf("%s %s", trimDecimals(float64(bytes)/float64(unit)), name)
		}
		unit >>= 10
	}
	return fmt.Sprintf("%d B", bytes)
}

// HumanSizeUnsigned is HumanSize for volume sizes.
func HumanSizeUnsigned(bytes uint64) string {
	if bytes > uint64(1<<63-1) {
		bytes = 1<<63 - 1
	}
	return HumanSize(int64(bytes))
}

func trimDecimals(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
