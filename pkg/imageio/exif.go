package imageio

import (
	"encoding/binary"
	"fmt"
)

const tagOrientation = 0x0112

// jpegOrientation returns the EXIF orientation (1..8) stored in a JPEG.
func jpegOrientation(data []byte) (int, error) {
	tiffStart, err := tiffStartInJPEG(data)
	if err != nil {
		return 0, err
	}
	return orientationFromTIFF(data, tiffStart)
}

// tiffStartInJPEG scans the JPEG segments for an APP1 Exif block and returns
// the offset of its TIFF header.
func tiffStartInJPEG(data []byte) (int, error) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return -1, fmt.Errorf("not a jpeg")
	}
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		if marker == 0xDA { // start of scan, no metadata past this point
			break
		}
		segLen := int(data[i+2])<<8 | int(data[i+3])
		if marker == 0xE1 && segLen >= 8 && i+10 <= len(data) && string(data[i+4:i+10]) == "Exif\x00\x00" {
			return i + 10, nil
		}
		if segLen <= 2 {
			i += 2
		} else {
			i += 2 + segLen
		}
	}
	return -1, fmt.Errorf("no exif segment")
}

// orientationFromTIFF reads the orientation tag from IFD0.
func orientationFromTIFF(data []byte, tiffStart int) (int, error) {
	if tiffStart+8 > len(data) {
		return 0, fmt.Errorf("tiff header truncated")
	}
	var order binary.ByteOrder
	switch string(data[tiffStart : tiffStart+2]) {
	case "MM":
		order = binary.BigEndian
	case "II":
		order = binary.LittleEndian
	default:
		return 0, fmt.Errorf("unknown tiff byte order")
	}
	if order.Uint16(data[tiffStart+2:tiffStart+4]) != 0x002A {
		return 0, fmt.Errorf("invalid tiff magic")
	}
	ifd := tiffStart + int(order.Uint32(data[tiffStart+4:tiffStart+8]))
	if ifd+2 > len(data) || ifd <= tiffStart {
		return 0, fmt.Errorf("ifd out of range")
	}
	n := int(order.Uint16(data[ifd : ifd+2]))
	for e := 0; e < n; e++ {
		ent := ifd + 2 + e*12
		if ent+12 > len(data) {
			break
		}
		if order.Uint16(data[ent:ent+2]) != tagOrientation {
			continue
		}
		// SHORT, value stored inline
		if order.Uint16(data[ent+2:ent+4]) != 3 {
			return 0, fmt.Errorf("unexpected orientation type")
		}
		return int(order.Uint16(data[ent+8 : ent+10])), nil
	}
	return 0, fmt.Errorf("orientation tag not found")
}
