package consts

const (
	IMUserKey         = "im:user:"
	IMProjectKey      = "im:project:"
	UserSimpleInfoKey = "user:simple:info:"
)
