package discovery

import (
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// TCP support bits of the T TXT key.
const (
	tcpClientBit = 1 << 1
	tcpServerBit = 1 << 2
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// FillCommonTXT applies one TXT entry to the fields shared by all results.
//
// Unknown keys are ignored. Invalid values leave the field unset and return
// an error wrapping ErrInvalidTXTRecord.
func FillCommonTXT(key, value string, data *CommonResolutionData) error {
	switch strings.ToUpper(key) {
	case TXTKeySessionIdle:
		d, err := parseInterval(key, value)
		if err != nil {
			return err
		}
		data.MRP.Idle = d
	case TXTKeySessionActive:
		d, err := parseInterval(key, value)
		if err != nil {
			return err
		}
		data.MRP.Active = d
	case TXTKeyActiveThreshold:
		n, err := parseUint(key, value, 16)
		if err != nil {
			return err
		}
		data.MRP.ActiveThreshold = time.Duration(n) * time.Millisecond
	case TXTKeyTCP:
		n, err := parseUint(key, value, 8)
		if err != nil {
			return err
		}
		// T=1 predates the bitmap and means TCP is supported.
		data.SupportsTCP = n == 1 || n&tcpServerBit != 0
	case TXTKeyICD:
		n, err := parseUint(key, value, 8)
		if err != nil || n > 1 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, key, value)
		}
		data.ICD = n == 1
	}
	return nil
}

// FillDiscoveredTXT applies one TXT entry to a discovered node, including the
// common fields.
//
// Unknown keys are ignored. Invalid values leave the field unset and return
// an error wrapping ErrInvalidTXTRecord.
func FillDiscoveredTXT(key, value string, node *DiscoveredNode) error {
	switch strings.ToUpper(key) {
	case TXTKeyDiscriminator:
		n, err := parseUint(key, value, 16)
		if err != nil {
			return err
		}
		if n > MaxDiscriminator {
			return fmt.Errorf("%w: %d", ErrInvalidDiscriminator, n)
		}
		node.LongDiscriminator = uint16(n)
	case TXTKeyVendorProduct:
		vid, pid, err := parseVendorProduct(value)
		if err != nil {
			return err
		}
		node.VendorID = vid
		node.ProductID = pid
	case TXTKeyCommissioningMode:
		n, err := parseUint(key, value, 8)
		if err != nil || n > uint64(CommissioningModeEnhanced) {
			return fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, key, value)
		}
		node.CommissioningMode = CommissioningMode(n)
	case TXTKeyDeviceType:
		n, err := parseUint(key, value, 16)
		if err != nil {
			return err
		}
		node.DeviceType = uint16(n)
	case TXTKeyDeviceName:
		if len(value) > MaxDeviceNameLen {
			return fmt.Errorf("%w: %s too long", ErrInvalidTXTRecord, key)
		}
		node.DeviceName = value
	case TXTKeyRotatingID:
		id, err := hex.DecodeString(value)
		if err != nil || len(id) > MaxRotatingIDLen {
			return fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, key, value)
		}
		node.RotatingID = id
	case TXTKeyPairingHint:
		n, err := parseUint(key, value, 16)
		if err != nil {
			return err
		}
		node.PairingHint = uint16(n)
	case TXTKeyPairingInstruction:
		if len(value) > MaxPairingInstructionLen {
			return fmt.Errorf("%w: %s too long", ErrInvalidTXTRecord, key)
		}
		node.PairingInstruction = value
	default:
		return FillCommonTXT(key, value, &node.CommonResolutionData)
	}
	return nil
}

// EncodeCommissionableTXT creates TXT records for commissionable discovery.
func EncodeCommissionableTXT(info *CommissionableInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	// Required fields
	txt[TXTKeyDiscriminator] = strconv.FormatUint(uint64(info.LongDiscriminator), 10)
	txt[TXTKeyCommissioningMode] = strconv.FormatUint(uint64(info.CommissioningMode), 10)

	// Optional fields
	encodeVendorProduct(txt, info.VendorID, info.ProductID)
	if info.DeviceType != 0 {
		txt[TXTKeyDeviceType] = strconv.FormatUint(uint64(info.DeviceType), 10)
	}
	if info.DeviceName != "" {
		txt[TXTKeyDeviceName] = info.DeviceName
	}
	if len(info.RotatingID) > 0 {
		txt[TXTKeyRotatingID] = strings.ToUpper(hex.EncodeToString(info.RotatingID))
	}
	if info.PairingHint != 0 {
		txt[TXTKeyPairingHint] = strconv.FormatUint(uint64(info.PairingHint), 10)
	}
	if info.PairingInstruction != "" {
		txt[TXTKeyPairingInstruction] = info.PairingInstruction
	}
	encodeCommon(txt, info.MRP, info.SupportsTCP, info.ICD)

	return txt
}

// EncodeCommissionerTXT creates TXT records for commissioner discovery.
func EncodeCommissionerTXT(info *CommissionerInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	encodeVendorProduct(txt, info.VendorID, info.ProductID)
	if info.DeviceType != 0 {
		txt[TXTKeyDeviceType] = strconv.FormatUint(uint64(info.DeviceType), 10)
	}
	if info.DeviceName != "" {
		txt[TXTKeyDeviceName] = info.DeviceName
	}
	encodeCommon(txt, info.MRP, info.SupportsTCP, false)

	return txt
}

// EncodeOperationalTXT creates TXT records for operational discovery.
func EncodeOperationalTXT(info *OperationalInfo) TXTRecordMap {
	txt := make(TXTRecordMap)
	encodeCommon(txt, info.MRP, info.SupportsTCP, info.ICD)
	return txt
}

func encodeVendorProduct(txt TXTRecordMap, vid, pid uint16) {
	switch {
	case vid != 0 && pid != 0:
		txt[TXTKeyVendorProduct] = fmt.Sprintf("%d+%d", vid, pid)
	case vid != 0:
		txt[TXTKeyVendorProduct] = strconv.FormatUint(uint64(vid), 10)
	}
}

func encodeCommon(txt TXTRecordMap, mrp MRPHints, tcp, icd bool) {
	if mrp.Idle > 0 {
		txt[TXTKeySessionIdle] = strconv.FormatInt(mrp.Idle.Milliseconds(), 10)
	}
	if mrp.Active > 0 {
		txt[TXTKeySessionActive] = strconv.FormatInt(mrp.Active.Milliseconds(), 10)
	}
	if mrp.ActiveThreshold > 0 {
		txt[TXTKeyActiveThreshold] = strconv.FormatInt(mrp.ActiveThreshold.Milliseconds(), 10)
	}
	if tcp {
		txt[TXTKeyTCP] = strconv.Itoa(tcpServerBit | tcpClientBit)
	}
	if icd {
		txt[TXTKeyICD] = "1"
	}
}

func parseUint(key, value string, bits int) (uint64, error) {
	n, err := strconv.ParseUint(value, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, key, value)
	}
	return n, nil
}

func parseInterval(key, value string) (time.Duration, error) {
	n, err := parseUint(key, value, 32)
	if err != nil {
		return 0, err
	}
	d := time.Duration(n) * time.Millisecond
	if d > MaxRetransmissionInterval {
		return 0, fmt.Errorf("%w: %s exceeds %s", ErrInvalidTXTRecord, key, MaxRetransmissionInterval)
	}
	return d, nil
}

// parseVendorProduct parses "vid" or "vid+pid".
func parseVendorProduct(value string) (vid, pid uint16, err error) {
	vStr, pStr, hasProduct := strings.Cut(value, "+")
	v, err := parseUint(TXTKeyVendorProduct, vStr, 16)
	if err != nil {
		return 0, 0, err
	}
	if hasProduct {
		p, err := parseUint(TXTKeyVendorProduct, pStr, 16)
		if err != nil {
			return 0, 0, err
		}
		pid = uint16(p)
	}
	return uint16(v), pid, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a sorted slice of
// "key=value" strings. This format is commonly used by mDNS libraries.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	slices.Sort(result)
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		k, v, _ := strings.Cut(s, "=")
		if k != "" {
			txt[k] = v
		}
	}
	return txt
}
