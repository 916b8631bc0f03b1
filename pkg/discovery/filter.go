package discovery

import (
	"fmt"
	"strings"
)

// FilterType selects which field of a Filter is meaningful.
type FilterType uint8

const (
	// FilterNone matches every node of the browsed kind.
	FilterNone FilterType = iota

	// FilterShortDiscriminator matches the upper 4 bits of the discriminator.
	FilterShortDiscriminator

	// FilterLongDiscriminator matches the full 12-bit discriminator.
	FilterLongDiscriminator

	// FilterVendorID matches the advertised vendor ID.
	FilterVendorID

	// FilterDeviceType matches the advertised device type.
	FilterDeviceType

	// FilterCommissioningMode matches nodes with an open commissioning window.
	FilterCommissioningMode

	// FilterInstanceName matches one instance by name.
	FilterInstanceName

	// FilterCommissioner matches commissioners.
	FilterCommissioner

	// FilterCompressedFabricID matches operational nodes of one fabric.
	FilterCompressedFabricID
)

// String returns the filter type name.
func (t FilterType) String() string {
	switch t {
	case FilterNone:
		return "NONE"
	case FilterShortDiscriminator:
		return "SHORT_DISCRIMINATOR"
	case FilterLongDiscriminator:
		return "LONG_DISCRIMINATOR"
	case FilterVendorID:
		return "VENDOR_ID"
	case FilterDeviceType:
		return "DEVICE_TYPE"
	case FilterCommissioningMode:
		return "COMMISSIONING_MODE"
	case FilterInstanceName:
		return "INSTANCE_NAME"
	case FilterCommissioner:
		return "COMMISSIONER"
	case FilterCompressedFabricID:
		return "COMPRESSED_FABRIC_ID"
	default:
		return "UNKNOWN"
	}
}

// Filter narrows a browse. Only the field selected by Type is meaningful;
// filters compare with ==.
type Filter struct {
	Type         FilterType
	Code         uint64
	InstanceName string
}

// NoFilter matches every node.
func NoFilter() Filter {
	return Filter{Type: FilterNone}
}

// ShortDiscriminatorFilter matches a 4-bit short discriminator.
func ShortDiscriminatorFilter(d uint16) Filter {
	return Filter{Type: FilterShortDiscriminator, Code: uint64(d)}
}

// LongDiscriminatorFilter matches a 12-bit long discriminator.
func LongDiscriminatorFilter(d uint16) Filter {
	return Filter{Type: FilterLongDiscriminator, Code: uint64(d)}
}

// VendorIDFilter matches a vendor ID.
func VendorIDFilter(vid uint16) Filter {
	return Filter{Type: FilterVendorID, Code: uint64(vid)}
}

// DeviceTypeFilter matches a device type.
func DeviceTypeFilter(dt uint16) Filter {
	return Filter{Type: FilterDeviceType, Code: uint64(dt)}
}

// CommissioningModeFilter matches nodes with an open commissioning window.
func CommissioningModeFilter() Filter {
	return Filter{Type: FilterCommissioningMode}
}

// InstanceNameFilter matches one instance.
func InstanceNameFilter(name string) Filter {
	return Filter{Type: FilterInstanceName, InstanceName: name}
}

// CommissionerFilter matches commissioners.
func CommissionerFilter() Filter {
	return Filter{Type: FilterCommissioner}
}

// CompressedFabricIDFilter matches operational nodes of one fabric.
func CompressedFabricIDFilter(cfid uint64) Filter {
	return Filter{Type: FilterCompressedFabricID, Code: cfid}
}

// String returns a readable form of the filter.
func (f Filter) String() string {
	switch f.Type {
	case FilterNone, FilterCommissioningMode, FilterCommissioner:
		return f.Type.String()
	case FilterInstanceName:
		return fmt.Sprintf("%s(%s)", f.Type, f.InstanceName)
	case FilterCompressedFabricID:
		return fmt.Sprintf("%s(%016X)", f.Type, f.Code)
	default:
		return fmt.Sprintf("%s(%d)", f.Type, f.Code)
	}
}

// Subtype returns the DNS-SD subtype label the filter browses for, or ""
// when the filter browses the plain service or names one instance.
func (f Filter) Subtype() string {
	switch f.Type {
	case FilterShortDiscriminator:
		return fmt.Sprintf("_S%d", f.Code)
	case FilterLongDiscriminator:
		return fmt.Sprintf("_L%d", f.Code)
	case FilterVendorID:
		return fmt.Sprintf("_V%d", f.Code)
	case FilterDeviceType:
		return fmt.Sprintf("_T%d", f.Code)
	case FilterCommissioningMode:
		return "_CM"
	case FilterCompressedFabricID:
		return fmt.Sprintf("_I%016X", f.Code)
	default:
		return ""
	}
}

// Matches reports whether a discovered node satisfies the filter.
func (f Filter) Matches(node *DiscoveredNode) bool {
	switch f.Type {
	case FilterNone:
		return true
	case FilterShortDiscriminator:
		return uint64(node.ShortDiscriminator()) == f.Code
	case FilterLongDiscriminator:
		return uint64(node.LongDiscriminator) == f.Code
	case FilterVendorID:
		return uint64(node.VendorID) == f.Code
	case FilterDeviceType:
		return uint64(node.DeviceType) == f.Code
	case FilterCommissioningMode:
		return node.CommissioningMode != CommissioningModeDisabled
	case FilterInstanceName:
		return strings.EqualFold(node.InstanceName, f.InstanceName)
	case FilterCommissioner:
		return node.Kind == KindCommissionerNode
	case FilterCompressedFabricID:
		peer, err := ParseInstanceName(node.InstanceName)
		return err == nil && peer.CompressedFabricID == f.Code
	default:
		return false
	}
}

// FilterNodes forwards the nodes from in that match the filter.
// The returned channel is closed when in is closed.
func FilterNodes(in <-chan DiscoveredNode, filter Filter) <-chan DiscoveredNode {
	out := make(chan DiscoveredNode)
	go func() {
		defer close(out)
		for node := range in {
			if filter.Matches(&node) {
				out <- node
			}
		}
	}()
	return out
}
