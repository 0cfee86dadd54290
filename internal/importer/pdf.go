package importer

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/georgepadayatti/gopdf/pdf/generic"
	"github.com/georgepadayatti/gopdf/pdf/reader"

	"github.com/piwi3910/PosterCut/internal/model"
)

// ErrNoPageBox is returned when neither the page nor its ancestors carry a
// usable MediaBox.
var ErrNoPageBox = errors.New("page has no MediaBox")

// maxTreeDepth bounds the walk up the page tree through /Parent.
const maxTreeDepth = 32

// PageInfo describes one page of a source document.
type PageInfo struct {
	Index    int        // 1-based
	Size     model.Size // Visible size in mm, after /Rotate
	Rotation int        // Normalised to 0, 90, 180 or 270
	Count    int        // Pages in the document
}

// SourceFromPDF measures page (1-based) of the PDF at path. The CropBox is
// used when present, otherwise the MediaBox; both are inherited from the
// page tree like a viewer would.
func SourceFromPDF(path string, page int) (PageInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PageInfo{}, err
	}
	return SourceFromPDFBytes(data, page)
}

// SourceFromPDFBytes is SourceFromPDF for an in-memory document.
func SourceFromPDFBytes(data []byte, page int) (PageInfo, error) {
	r, err := reader.NewPdfFileReaderFromBytes(data)
	if err != nil {
		return PageInfo{}, fmt.Errorf("cannot read PDF: %w", err)
	}
	count := r.GetPageCount()
	if page < 1 || page > count {
		return PageInfo{}, fmt.Errorf("page %d out of range, document has %d", page, count)
	}
	dict, err := r.GetPage(page - 1)
	if err != nil {
		return PageInfo{}, err
	}

	box, err := pageBox(r, dict, "CropBox")
	if err != nil {
		box, err = pageBox(r, dict, "MediaBox")
		if err != nil {
			return PageInfo{}, err
		}
	}

	rotation := 0
	if obj := inherited(r, dict, "Rotate"); obj != nil {
		if n, ok := obj.(generic.IntegerObject); ok {
			rotation = ((int(n) % 360) + 360) % 360
		}
	}

	size := model.NewSize(
		model.PtToMM(math.Abs(box.Width())),
		model.PtToMM(math.Abs(box.Height())),
	)
	if rotation == 90 || rotation == 270 {
		size = size.Rotate()
	}
	if !size.Valid() {
		return PageInfo{}, fmt.Errorf("%w: page %d measures %v", model.ErrInvalidSize, page, size)
	}
	return PageInfo{Index: page, Size: size, Rotation: rotation, Count: count}, nil
}

// pageBox finds a page boundary box, inheriting from ancestors.
func pageBox(r *reader.PdfFileReader, dict *generic.DictionaryObject, key string) (*generic.Rectangle, error) {
	obj := inherited(r, dict, key)
	if obj == nil {
		if key == "MediaBox" {
			return nil, ErrNoPageBox
		}
		return nil, fmt.Errorf("page has no %s", key)
	}
	arr, ok := obj.(generic.ArrayObject)
	if !ok {
		return nil, fmt.Errorf("%s is not an array", key)
	}
	// Elements may themselves be indirect.
	resolved := make(generic.ArrayObject, len(arr))
	for i, el := range arr {
		v, err := r.ResolveReference(el)
		if err != nil {
			return nil, err
		}
		resolved[i] = v
	}
	return generic.NewRectangle(resolved)
}

// inherited looks key up on dict and then on its /Parent chain, resolving
// indirect values.
func inherited(r *reader.PdfFileReader, dict *generic.DictionaryObject, key string) generic.PdfObject {
	node := dict
	for depth := 0; node != nil && depth < maxTreeDepth; depth++ {
		if node.Has(key) {
			v, err := r.ResolveReference(node.Get(key))
			if err != nil {
				return nil
			}
			return v
		}
		parent, err := r.ResolveReference(node.Get("Parent"))
		if err != nil || parent == nil {
			return nil
		}
		next, ok := parent.(*generic.DictionaryObject)
		if !ok {
			return nil
		}
		node = next
	}
	return nil
}
