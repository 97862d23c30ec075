package rbac

// Default policy for the attempt engine. Learners drive their own
// attempts; teachers additionally see anyone's history.
var RolePermissions = map[string][]string{
	"student": {
		"quiz:view",
		"attempt:start",
		"attempt:answer",
		"attempt:submit",
		"attempt:review-own",
		"media:view",
	},
	"teacher": {
		"quiz:view",
		"attempt:review-own",
		"attempt:review-any",
		"media:view",
	},
	"admin": {
		"*", // everything
	},
}
