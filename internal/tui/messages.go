package tui

import (
	"github.com/matheuskafuri/recentdrive/internal/service"
	"github.com/matheuskafuri/recentdrive/internal/update"
)

type filesLoadedMsg struct {
	resp service.Response
}

type openErrMsg struct {
	err error
}

type updateMsg struct {
	result *update.Result
}
