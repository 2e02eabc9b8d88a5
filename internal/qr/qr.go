// Package qr renders the share URL as a QR code, either as half-block
// characters in the terminal or as a PNG file.
package qr

import (
	"io"
	"os"

	"github.com/mdp/qrterminal/v3"
	qrcode "rsc.io/qr"
)

// Use ascii blocks to form the QR Code
const (
	blackWhite = "▄"
	blackBlack = " "
	whiteBlack = "▀"
	whiteWhite = "█"
)

// PrintTerminal writes a scannable QR code for url to w.
func PrintTerminal(w io.Writer, url string) {
	qrterminal.GenerateWithConfig(url, qrterminal.Config{
		Level:          qrterminal.M,
		Writer:         w,
		HalfBlocks:     true,
		BlackChar:      blackBlack,
		WhiteBlackChar: whiteBlack,
		WhiteChar:      whiteWhite,
		BlackWhiteChar: blackWhite,
		QuietZone:      1,
	})
}

// WritePNG encodes url as a QR code and writes it as a PNG file at path.
func WritePNG(path, url string) error {
	code, err := qrcode.Encode(url, qrcode.M)
	if err != nil {
		return err
	}
	return os.WriteFile(path, code.PNG(), 0644)
}
