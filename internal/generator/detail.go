package generator

import (
	"github.com/cmmoran/bindgen/internal/model"
)

// MappingDetail records how one class is represented: which of the abstract
// (type name keyed) and concrete (element name keyed) mappings it gets,
// the class its concrete mapping extends and whether the mapping tree has
// been built.
type MappingDetail struct {
	Class       string
	Namespace   string
	UseAbstract bool
	UseConcrete bool
	Extended    bool
	TypeName    model.QName
	ElementName model.QName
	Extends     string
	// Members holds the members of the class and its ancestors by access key.
	Members   map[string]*model.MemberDescriptor
	Generated bool

	desc       *model.ClassDescriptor
	suppressed bool
}

// SetExtended marks the class as extended by another mapped class, which
// requires a concrete mapping.
func (d *MappingDetail) SetExtended() error {
	if d.suppressed {
		return model.Errorf(model.ErrConfiguration, d.Class, "",
			"class is extended by a mapped class but its concrete mapping is suppressed")
	}
	d.Extended = true
	d.UseConcrete = true
	return nil
}

// SuppressConcrete drops the concrete mapping.
func (d *MappingDetail) SuppressConcrete() error {
	if d.Extended {
		return model.Errorf(model.ErrConfiguration, d.Class, "",
			"concrete mapping suppressed for a class extended by a mapped class")
	}
	d.UseConcrete = false
	d.suppressed = true
	return nil
}

// RequireAbstract adds the abstract mapping.
func (d *MappingDetail) RequireAbstract() {
	d.UseAbstract = true
}

// RequireConcrete adds the concrete mapping.
func (d *MappingDetail) RequireConcrete() error {
	if d.suppressed {
		return model.Errorf(model.ErrConfiguration, d.Class, "",
			"concrete mapping both requested and suppressed")
	}
	d.UseConcrete = true
	return nil
}

// Descriptor returns the class descriptor the detail was built from.
func (d *MappingDetail) Descriptor() *model.ClassDescriptor {
	return d.desc
}
