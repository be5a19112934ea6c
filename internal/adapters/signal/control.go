package signal

import "github.com/sujals170/Bright-Byte-sub000/internal/core"

func (ctl *SignalWSController) handlePing(
	conn *WsSignalConn,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: core.MsgPong,
	}
	ctl.sendJSON(conn, resp)
}
