package qpay

import qrcode "github.com/skip2/go-qrcode"

// QRPNG renders the invoice qr_text as a PNG so bots and the API can
// serve a scannable image without an external renderer.
func QRPNG(qrText string, size int) ([]byte, error) {
	if size <= 0 {
		size = 512
	}
	return qrcode.Encode(qrText, qrcode.Medium, size)
}
