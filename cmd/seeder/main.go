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

// Command seeder writes a small sample corpus into a storage root so
// the pipeline can be tried end to end without real source data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/diwan/storage/local"
)

var proverbs = []string{
	"العلم نور والجهل ظلام فاطلبوا العلم من المهد الى اللحد؛",
	"من جد وجد ومن زرع حصد ومن سار على الدرب وصل؛",
	"الصبر مفتاح الفرج والعجلة من الشيطان والتاني من الرحمن؛",
	"خير الكلام ما قل ودل ولم يطل فيمل؛",
	"العقل السليم في الجسم السليم والصحه تاج على رؤوس الاصحاء؛",
	"اطلبوا العلم ولو في الصين فان طلب العلم فريضه؛",
	"الكتاب خير جليس في الزمان وخير صديق لمن لا صديق له؛",
	"راس الحكمه مخافه الله والتواضع من شيم الكرام؛",
	"لسان العاقل وراء قلبه وقلب الجاهل وراء لسانه؛",
	"من حفر حفره لاخيه وقع فيها ومن عاب عيب؛",
}

const headerTemplate = `######OpenITI#

#META# 000.BookURI	:: %s
#META# 010.AuthorNAME	:: %s
#META#Header#End#

`

type sampleBook struct {
	path   string
	uri    string
	author string
	lines  int
}

var books = []sampleBook{
	{path: "corpus/0101KitabAlHikma-ara1.markdown", uri: "0101KitabAlHikma", author: "حكيم الاختبار", lines: 40},
	{path: "corpus/0202KitabAlAmthal-ara1.markdown", uri: "0202KitabAlAmthal", author: "جامع الامثال", lines: 25},
	{path: "corpus/short-note.txt", uri: "", author: "", lines: 3},
}

func renderBook(b sampleBook) string {
	var sb strings.Builder
	if b.uri != "" {
		fmt.Fprintf(&sb, headerTemplate, b.uri, b.author)
	}
	for i := 0; i < b.lines; i++ {
		line := proverbs[i%len(proverbs)]
		if b.uri != "" {
			fmt.Fprintf(&sb, "# قال في الفصل %d %s\n", i+1, line)
		} else {
			fmt.Fprintf(&sb, "الفقره %d %s\n", i+1, line)
		}
	}
	return sb.String()
}

func main() {
	root := flag.String("root", "", "storage root directory to seed")
	flag.Parse()

	if *root == "" {
		fmt.Fprintln(os.Stderr, "usage: seeder -root <storage-root>")
		os.Exit(1)
	}

	backend, err := local.New(*root)
	if err != nil {
		slog.Error("failed to open storage root", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	for _, b := range books {
		if _, err := backend.UploadText(ctx, b.path, renderBook(b)); err != nil {
			slog.Error("failed to write sample document", "path", b.path, "err", err)
			os.Exit(1)
		}
		slog.Info("seeded sample document", "path", b.path)
	}

	fmt.Fprintf(os.Stderr, "seeded %d documents under %s\n", len(books), *root)
}
