package console

var commands = map[string]command{
	"status": {"show storage mode, session and collection sizes", cmdStatus},
	"login":  {"authenticate and persist the session", cmdLogin},
	"logout": {"clear the persisted session", cmdLogout},
	"whoami": {"print the current session identity", cmdWhoami},

	"register":       {"self-register a pending account", cmdRegister},
	"users":          {"list accounts, optionally filtered by status or district", cmdUsers},
	"rejected":       {"list rejected accounts with their grace countdown", cmdRejected},
	"approve":        {"activate an account with a role and district", cmdApprove},
	"reject":         {"reject a pending account", cmdReject},
	"delete":         {"delete one account", cmdDelete},
	"delete-all":     {"delete every local account except super administrators and yourself", cmdDeleteAll},
	"add-user":       {"create an active account directly", cmdAddUser},
	"set-role":       {"change an account's role", cmdSetRole},
	"reset-password": {"overwrite an account's password", cmdResetPassword},
	"update-profile": {"edit profile fields of an account", cmdUpdateProfile},
	"sweep":          {"purge rejected accounts whose grace window has elapsed", cmdSweep},

	"announcements":     {"list announcements", cmdAnnouncements},
	"announce":          {"publish an announcement", cmdAnnounce},
	"edit-announcement": {"edit a published announcement (local mode only)", cmdEditAnnouncement},
	"unannounce":        {"delete an announcement", cmdUnannounce},
	"locations":         {"list church locations", cmdLocations},
	"add-location":      {"register a church location", cmdAddLocation},
	"remove-location":   {"remove a church location (local mode only)", cmdRemoveLocation},
	"subscribe":         {"add an email to the newsletter list", cmdSubscribe},
	"subscribers":       {"list newsletter subscribers", cmdSubscribers},
	"newsletter":        {"send a newsletter to every subscriber", cmdNewsletter},

	"export":    {"write the local store as a JSON document", cmdExport},
	"import":    {"load a JSON document into the local store", cmdImport},
	"reset":     {"wipe the local store", cmdReset},
	"directory": {"render the active member directory as csv, pdf or xlsx", cmdDirectory},
}
