package handlers

// Response messages of the registry API.
const (
	MsgNotFound        = "not found."
	MsgBadRequest      = "could not process the data."
	MsgServerError     = "something went wrong."
	MsgUsage           = "please access with POST to create new data or DELETE to delete the data."
	MsgSaved           = "data is saved successfully. do not forget your token."
	MsgClaimConflict   = "the token is incorrect. use correct token to update the record or use other name to create new one."
	msgDeletedFmt      = "the data of the name '%s' is deleted successfully."
	msgNotExistFmt     = "the name '%s' is not exist."
	msgDeleteDeniedFmt = "the name '%s' is already exist but the token is incorrect. use correct token to delete the record."
)

// MessageResponse is the standard format for API responses without data.
type MessageResponse struct {
	Message string `json:"message"`
}

// ClaimResponse echoes the saved credentials back to the caller.
type ClaimResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
	Token   string `json:"token"`
}
