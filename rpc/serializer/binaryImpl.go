package serializer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ValentinKolb/tRS/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasCommand byte = 1 << 0
	hasArgs    byte = 1 << 1
	hasResult  byte = 1 << 2
	hasErr     byte = 1 << 3
)

// Fixed header: 1 byte message type + 1 byte flags + 8 bytes message id
const headerSize = 10

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	if len(msg.Args) > math.MaxUint16 {
		return nil, fmt.Errorf("too many arguments: %d", len(msg.Args))
	}

	// Calculate total size needed
	totalSize := b.sizeBytes(msg)
	result := make([]byte, totalSize)

	// Write message type and id
	result[0] = byte(msg.MsgType)
	binary.BigEndian.PutUint64(result[2:headerSize], msg.ID)

	// Initialize flags byte
	var flags byte = 0

	// Set position for writing
	pos := headerSize

	// Handle Command
	if msg.Command != common.CmdUnknown {
		flags |= hasCommand
		result[pos] = byte(msg.Command)
		pos++
	}

	// Handle Args
	if msg.Args != nil {
		flags |= hasArgs
		binary.BigEndian.PutUint16(result[pos:pos+2], uint16(len(msg.Args)))
		pos += 2
		for _, arg := range msg.Args {
			pos = writeValue(result, pos, arg)
		}
	}

	// Handle Result
	if msg.Result != nil {
		flags |= hasResult
		pos = writeValue(result, pos, *msg.Result)
	}

	// Handle Err
	if msg.Err != "" {
		flags |= hasErr
		errBytes := []byte(msg.Err)
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(errBytes)))
		pos += 4
		copy(result[pos:pos+len(errBytes)], errBytes)
		pos += len(errBytes)
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags + ID)
	if len(data) < headerSize {
		return fmt.Errorf("data too short for message header")
	}

	// Read message type, flags and id
	msg.MsgType = common.MessageType(data[0])
	flags := data[1]
	msg.ID = binary.BigEndian.Uint64(data[2:headerSize])

	// Initialize read position
	pos := headerSize

	// Read Command if present
	if flags&hasCommand != 0 {
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for command")
		}
		msg.Command = common.Command(data[pos])
		pos++
	} else {
		msg.Command = common.CmdUnknown
	}

	// Read Args if present
	if flags&hasArgs != 0 {
		if pos+2 > len(data) {
			return fmt.Errorf("data too short for argument count")
		}
		count := int(binary.BigEndian.Uint16(data[pos : pos+2]))
		pos += 2

		msg.Args = make([]common.Value, count)
		for i := 0; i < count; i++ {
			val, next, err := readValue(data, pos)
			if err != nil {
				return fmt.Errorf("argument %d: %v", i, err)
			}
			msg.Args[i] = val
			pos = next
		}
	} else {
		msg.Args = nil
	}

	// Read Result if present
	if flags&hasResult != 0 {
		val, next, err := readValue(data, pos)
		if err != nil {
			return fmt.Errorf("result: %v", err)
		}
		msg.Result = &val
		pos = next
	} else {
		msg.Result = nil
	}

	// Read Err if present
	if flags&hasErr != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for error length")
		}
		errLen := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4

		if pos+errLen > len(data) {
			return fmt.Errorf("data too short for error data")
		}
		msg.Err = string(data[pos : pos+errLen])
		pos += errLen
	} else {
		msg.Err = ""
	}

	return nil
}

// --------------------------------------------------------------------------
// Value Encoding
// --------------------------------------------------------------------------

// writeValue encodes one tagged value at pos and returns the next position.
// The buffer must already be sized via sizeBytes.
func writeValue(buf []byte, pos int, v common.Value) int {
	buf[pos] = byte(v.Type)
	pos++

	switch v.Type {
	case common.VTInt:
		binary.BigEndian.PutUint64(buf[pos:pos+8], uint64(v.Int))
		pos += 8
	case common.VTString:
		strBytes := []byte(v.Str)
		binary.BigEndian.PutUint32(buf[pos:pos+4], uint32(len(strBytes)))
		pos += 4
		copy(buf[pos:pos+len(strBytes)], strBytes)
		pos += len(strBytes)
	case common.VTBool:
		if v.Bool {
			buf[pos] = 1
		} else {
			buf[pos] = 0
		}
		pos++
	case common.VTStringList:
		binary.BigEndian.PutUint32(buf[pos:pos+4], uint32(len(v.List)))
		pos += 4
		for _, s := range v.List {
			strBytes := []byte(s)
			binary.BigEndian.PutUint32(buf[pos:pos+4], uint32(len(strBytes)))
			pos += 4
			copy(buf[pos:pos+len(strBytes)], strBytes)
			pos += len(strBytes)
		}
	}

	return pos
}

// readValue decodes one tagged value at pos and returns it together with
// the next read position. All reads are bounds checked.
func readValue(data []byte, pos int) (common.Value, int, error) {
	var v common.Value

	if pos+1 > len(data) {
		return v, pos, fmt.Errorf("data too short for value type")
	}
	v.Type = common.ValueType(data[pos])
	pos++

	switch v.Type {
	case common.VTNone:
		// no payload
	case common.VTInt:
		if pos+8 > len(data) {
			return v, pos, fmt.Errorf("data too short for int value")
		}
		v.Int = int64(binary.BigEndian.Uint64(data[pos : pos+8]))
		pos += 8
	case common.VTString:
		if pos+4 > len(data) {
			return v, pos, fmt.Errorf("data too short for string length")
		}
		strLen := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+strLen > len(data) {
			return v, pos, fmt.Errorf("data too short for string value")
		}
		v.Str = string(data[pos : pos+strLen])
		pos += strLen
	case common.VTBool:
		if pos+1 > len(data) {
			return v, pos, fmt.Errorf("data too short for bool value")
		}
		v.Bool = data[pos] != 0
		pos++
	case common.VTStringList:
		if pos+4 > len(data) {
			return v, pos, fmt.Errorf("data too short for list length")
		}
		count := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
		// Every element carries at least its 4 byte length prefix, so a
		// declared count beyond that bound cannot be satisfied by the
		// remaining payload. Checked before allocating the slice.
		if uint64(count) > uint64((len(data)-pos)/4) {
			return v, pos, fmt.Errorf("list count %d exceeds remaining data", count)
		}
		v.List = make([]string, count)
		for i := 0; i < int(count); i++ {
			if pos+4 > len(data) {
				return v, pos, fmt.Errorf("data too short for list element length")
			}
			strLen := int(binary.BigEndian.Uint32(data[pos : pos+4]))
			pos += 4
			if pos+strLen > len(data) {
				return v, pos, fmt.Errorf("data too short for list element")
			}
			v.List[i] = string(data[pos : pos+strLen])
			pos += strLen
		}
	default:
		return v, pos, fmt.Errorf("unknown value type: %d", v.Type)
	}

	return v, pos, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// valueSize calculates the encoded size of one tagged value
func valueSize(v common.Value) int {
	size := 1 // type tag
	switch v.Type {
	case common.VTInt:
		size += 8
	case common.VTString:
		size += 4 + len(v.Str)
	case common.VTBool:
		size += 1
	case common.VTStringList:
		size += 4
		for _, s := range v.List {
			size += 4 + len(s)
		}
	}
	return size
}

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	size := headerSize

	if msg.Command != common.CmdUnknown {
		size += 1
	}
	if msg.Args != nil {
		size += 2
		for _, arg := range msg.Args {
			size += valueSize(arg)
		}
	}
	if msg.Result != nil {
		size += valueSize(*msg.Result)
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err)
	}

	return size
}
