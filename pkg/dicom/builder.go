package dicom

import (
	"fmt"

	"github.com/jpfielding/dicomlut.go/pkg/dicom/module"
	"github.com/jpfielding/dicomlut.go/pkg/dicom/tag"
)

// Option configures a Dataset during construction
type Option func(*Dataset) error

// NewDataset creates a Dataset with the given options
func NewDataset(opts ...Option) (*Dataset, error) {
	ds := &Dataset{Elements: make(map[Tag]*Element)}
	for _, opt := range opts {
		if err := opt(ds); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// MustDataset is NewDataset for fixtures that cannot fail
func MustDataset(opts ...Option) *Dataset {
	ds, err := NewDataset(opts...)
	if err != nil {
		panic(err)
	}
	return ds
}

// WithElement adds a single element to the dataset
func WithElement(t tag.Tag, value any) Option {
	return func(ds *Dataset) error {
		if value == nil {
			return fmt.Errorf("nil value for %v", t)
		}
		ds.Elements[t] = &Element{Tag: t, VR: t.VR(), Value: value}
		return nil
	}
}

// WithSequence adds a sequence element to the dataset
func WithSequence(t tag.Tag, items ...*Dataset) Option {
	return func(ds *Dataset) error {
		for i, item := range items {
			if item == nil {
				return fmt.Errorf("nil item %d in sequence %v", i, t)
			}
		}
		ds.Elements[t] = &Element{Tag: t, VR: "SQ", Value: items}
		return nil
	}
}

// WithModule adds all elements from a module's ToTags() result; nested item lists become sequences
func WithModule(m module.IODModule) Option {
	return func(ds *Dataset) error {
		for _, el := range m.ToTags() {
			if items, ok := el.Value.([]module.Item); ok {
				seq := make([]*Dataset, 0, len(items))
				for _, item := range items {
					sub, err := NewDataset()
					if err != nil {
						return err
					}
					for _, inner := range item {
						if err := WithElement(inner.Tag, inner.Value)(sub); err != nil {
							return err
						}
					}
					seq = append(seq, sub)
				}
				if err := WithSequence(el.Tag, seq...)(ds); err != nil {
					return err
				}
				continue
			}
			if err := WithElement(el.Tag, el.Value)(ds); err != nil {
				return err
			}
		}
		return nil
	}
}

// HasElement returns true if the dataset contains the specified element.
func HasElement(ds *Dataset, t Tag) bool {
	_, ok := ds.FindElement(t)
	return ok
}

// DeleteElement removes an element from the dataset.
func DeleteElement(ds *Dataset, t Tag) {
	delete(ds.Elements, t)
}

// GetSequenceItems returns all items from a sequence element.
//
// Returns nil if the element doesn't exist or isn't a sequence.
func GetSequenceItems(ds *Dataset, t Tag) []*Dataset {
	elem, ok := ds.FindElement(t)
	if !ok {
		return nil
	}
	seq, _ := elem.GetSequence()
	return seq
}
