package app

// Message types live in github.com/sadopc/gotermdiff/internal/msg so the
// panes can share them. They are aliased here for brevity.

import appmsg "github.com/sadopc/gotermdiff/internal/msg"

type (
	Pane                 = appmsg.Pane
	KeyMode              = appmsg.KeyMode
	FocusMsg             = appmsg.FocusMsg
	ReloadMsg            = appmsg.ReloadMsg
	SchemaAssignedMsg    = appmsg.SchemaAssignedMsg
	SchemaErrMsg         = appmsg.SchemaErrMsg
	FilterChangedMsg     = appmsg.FilterChangedMsg
	NodeActivatedMsg     = appmsg.NodeActivatedMsg
	CheckToggledMsg      = appmsg.CheckToggledMsg
	SelectItemMsg        = appmsg.SelectItemMsg
	SelectionChangedMsg  = appmsg.SelectionChangedMsg
	SelectionSavedMsg    = appmsg.SelectionSavedMsg
	SelectionRestoredMsg = appmsg.SelectionRestoredMsg
	SelectionErrMsg      = appmsg.SelectionErrMsg
	RestoreConfirmedMsg  = appmsg.RestoreConfirmedMsg
	StatusMsg            = appmsg.StatusMsg
)

const (
	PaneTree        = appmsg.PaneTree
	PaneDetail      = appmsg.PaneDetail
	KeyModeStandard = appmsg.KeyModeStandard
	KeyModeVim      = appmsg.KeyModeVim
)

var ParseKeyMode = appmsg.ParseKeyMode
