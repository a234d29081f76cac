package models

type CheckResponse struct {
	IsWorking bool `json:"isWorking"`
}

type InfoResponse struct {
	Info *VideoInfo `json:"info"`
}

type DownloadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
}

type HistoryResponse struct {
	Downloads []DownloadRecord `json:"downloads"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
