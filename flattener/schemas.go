package flattener

// AidSchema is the comma-delimited layout of the legacy aid export
var AidSchema = mustSchema("aid", ',',
	Column{Name: "id"},
	Column{Name: "name"},
	Column{Name: "name_initial"},
	Column{Name: "short_title"},
	Column{Name: "slug"},
	Column{Name: "url"},
	Column{Name: "financers"},
	Column{Name: "instructors"},
	Column{Name: "programs"},
	Column{Name: "description"},
	Column{Name: "eligibility"},
	Column{Name: "perimeter"},
	Column{Name: "perimeter_scale"},
	Column{Name: "categories"},
	Column{Name: "targeted_audiences"},
	Column{Name: "aid_types"},
	Column{Name: "destinations"},
	Column{Name: "is_call_for_project"},
	Column{Name: "is_charged"},
	Column{Name: "start_date"},
	Column{Name: "predeposit_date"},
	Column{Name: "submission_deadline"},
	Column{Name: "subvention_rate_lower_bound"},
	Column{Name: "subvention_rate_upper_bound"},
	Column{Name: "subvention_comment"},
	Column{Name: "loan_amount"},
	Column{Name: "recoverable_advance_amount"},
	Column{Name: "contact"},
	Column{Name: "recurrence"},
	Column{Name: "project_examples"},
	Column{Name: "origin_url"},
	Column{Name: "application_url"},
	Column{Name: "import_data_url"},
	Column{Name: "import_data_mention"},
	Column{Name: "import_share_licence"},
	Column{Name: "date_created"},
	Column{Name: "date_updated"},
	Column{Name: "project_references"},
	Column{Name: "european_aid"},
	Column{Name: "is_live"},
)

// AidCleanSchema is the semicolon-delimited layout written by the defensive
// converter. Free-text fields are stripped of their HTML.
var AidCleanSchema = mustSchema("aid_clean", ';',
	Column{Name: "id"},
	Column{Name: "name"},
	Column{Name: "name_initial"},
	Column{Name: "short_title"},
	Column{Name: "slug"},
	Column{Name: "url"},
	Column{Name: "financers"},
	Column{Name: "instructors"},
	Column{Name: "programs"},
	Column{Name: "description_clean", Source: "description", Transform: HTMLText},
	Column{Name: "eligibility_clean", Source: "eligibility", Transform: HTMLText},
	Column{Name: "perimeter"},
	Column{Name: "perimeter_scale"},
	Column{Name: "categories"},
	Column{Name: "targeted_audiences"},
	Column{Name: "aid_types"},
	Column{Name: "destinations"},
	Column{Name: "is_call_for_project"},
	Column{Name: "is_charged"},
	Column{Name: "start_date"},
	Column{Name: "predeposit_date"},
	Column{Name: "submission_deadline"},
	Column{Name: "subvention_rate_lower_bound"},
	Column{Name: "subvention_rate_upper_bound"},
	Column{Name: "loan_amount"},
	Column{Name: "recoverable_advance_amount"},
	Column{Name: "contact_clean", Source: "contact", Transform: HTMLText},
	Column{Name: "origin_url"},
	Column{Name: "application_url"},
)

// PerimeterSchema is the layout of the perimeter CSV dump
var PerimeterSchema = mustSchema("perimeter", ',',
	Column{Name: "id"},
	Column{Name: "name"},
	Column{Name: "code"},
	Column{Name: "scale"},
	Column{Name: "contained_in"},
	Column{Name: "slug"},
)
