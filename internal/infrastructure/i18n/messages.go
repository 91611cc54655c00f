package i18n

var spanish = map[string]string{
	"ERR_UNKNOWN":              "Ocurrió un error inesperado",
	"ERR_INTERNAL":             "Ocurrió un error inesperado",
	"ERR_VALIDATION":           "Los datos enviados no son válidos",
	"ERR_UNAUTHORIZED":         "Debes iniciar sesión",
	"ERR_FORBIDDEN":            "No tienes permiso para realizar esta acción",
	"ERR_TOKEN_EXPIRED":        "La sesión expiró, inicia sesión nuevamente",
	"ERR_TOKEN_INVALID":        "La sesión no es válida",
	"ERR_NOT_FOUND":            "Recurso no encontrado",
	"ERR_ROUTE_NOT_FOUND":      "Ruta no encontrada",
	"ERR_TENANT_REQUIRED":      "No se pudo identificar el restaurante",
	"ERR_BAD_REQUEST":          "Solicitud inválida",
	"ERR_INVALID_JSON":         "El cuerpo de la solicitud no es un JSON válido",
	"ERR_REQUEST_TOO_LARGE":    "La solicitud supera el tamaño máximo permitido",
	"ERR_RATE_LIMITED":         "Demasiadas solicitudes, intenta de nuevo en unos segundos",
	"ERR_CONCURRENCY_CONFLICT": "El recurso fue modificado por otro usuario, recarga e intenta de nuevo",
}

var english = map[string]string{
	"ERR_UNKNOWN":              "An unexpected error occurred",
	"ERR_INTERNAL":             "An unexpected error occurred",
	"ERR_VALIDATION":           "The submitted data is not valid",
	"ERR_UNAUTHORIZED":         "You must sign in",
	"ERR_FORBIDDEN":            "You are not allowed to perform this action",
	"ERR_TOKEN_EXPIRED":        "Your session expired, please sign in again",
	"ERR_TOKEN_INVALID":        "Your session is not valid",
	"ERR_NOT_FOUND":            "Resource not found",
	"ERR_ROUTE_NOT_FOUND":      "Route not found",
	"ERR_TENANT_REQUIRED":      "The restaurant could not be identified",
	"ERR_BAD_REQUEST":          "Invalid request",
	"ERR_INVALID_JSON":         "The request body is not valid JSON",
	"ERR_REQUEST_TOO_LARGE":    "The request exceeds the maximum allowed size",
	"ERR_RATE_LIMITED":         "Too many requests, try again in a few seconds",
	"ERR_CONCURRENCY_CONFLICT": "The resource was modified by someone else, reload and try again",
	"ERR_ALREADY_EXISTS":       "The resource already exists",
	"ERR_INVALID_INPUT":        "Invalid data",
	"ERR_INVALID_STATE":        "Operation not allowed in the current state",

	// identity
	"ACCOUNT_DISABLED":         "The account is disabled",
	"ALREADY_ACTIVE":           "Already active",
	"ALREADY_INACTIVE":         "Already inactive",
	"ALREADY_SUSPENDED":        "The restaurant is already suspended",
	"BOOTSTRAP_DISABLED":       "Superadmin creation is disabled",
	"BRANCH_HAS_OPEN_REGISTER": "A branch with an open cash register cannot be deleted",
	"BRANCH_REQUIRED":          "The branch is required",
	"CANNOT_REMOVE_SELF":       "You cannot delete or deactivate your own account",
	"EMAIL_IN_USE":             "The email is already registered",
	"INVALID_DISPLAY_NAME":     "Invalid name",
	"INVALID_EMAIL":            "Invalid email address",
	"INVALID_PLAN":             "Invalid plan",
	"INVALID_PROVIDER":         "Invalid sign-in provider",
	"INVALID_ROLE":             "Invalid role",
	"INVALID_SECRET":           "Wrong bootstrap secret",
	"INVALID_SETUP_STEP":       "Invalid setup step",
	"INVALID_SUBDOMAIN":        "The subdomain must be 3 to 63 lowercase letters, digits or hyphens",
	"LIMIT_REACHED":            "Limit reached",
	"PASSWORD_HASH_ERROR":      "The password could not be processed",
	"PASSWORD_MISMATCH":        "Passwords do not match",
	"PASSWORD_NOT_SET":         "The account uses an external provider",
	"POPUP_CLOSED":             "The sign-in window was closed before finishing",
	"PROVIDER_NO_EMAIL":        "The provider did not share a verified email",
	"PROVIDER_REJECTED":        "The account could not be verified with the provider",
	"SESSION_EXPIRED":          "Your session expired, please sign in again",
	"SETUP_DATA_MISSING":       "This step is missing its data",
	"SETUP_NEEDS_BRANCH":       "Create at least one branch to continue",
	"SETUP_NEEDS_MENU":         "Add at least one product to continue",
	"SETUP_STEP_OUT_OF_ORDER":  "Complete the previous steps first",
	"SUBDOMAIN_RESERVED":       "The subdomain is reserved",
	"SUBDOMAIN_TAKEN":          "The subdomain is already taken",
	"SUPERADMIN_EXISTS":        "A superadmin already exists",
	"TENANT_INACTIVE":          "The restaurant is not available",
	"TENANT_REQUIRED":          "The user must belong to a restaurant",
	"USER_NOT_FOUND":           "There is no account with that email",
	"USE_PROVIDER":             "This account signs in with Google or Facebook",
	"WEAK_PASSWORD":            "The password must be 6 to 72 characters long",
	"WRONG_PASSWORD":           "Wrong password",

	// catalog
	"CATEGORY_HAS_CHILDREN": "The category has subcategories",
	"CATEGORY_HAS_PRODUCTS": "The category has products",
	"CATEGORY_REQUIRED":     "The category is required",
	"EXTRA_EXISTS":          "An extra with that name already exists",
	"EXTRA_NOT_FOUND":       "Extra not found",
	"INVALID_CATEGORY":      "Invalid category",
	"INVALID_DISCOUNT":      "The discount price must be lower than the price",
	"INVALID_EXTRA":         "The extra name is required",
	"INVALID_EXTRA_PRICE":   "The extra price cannot be negative",
	"INVALID_NAME":          "Invalid name",
	"INVALID_ORDER":         "The position cannot be negative",
	"INVALID_PARENT":        "The parent category does not exist",
	"INVALID_PRICE":         "The price cannot be negative",
	"INVALID_REORDER":       "Invalid reorder request",
	"INVALID_SUBCATEGORY":   "The subcategory does not belong to the category",
	"NESTING_TOO_DEEP":      "A subcategory cannot have subcategories",
	"PARENT_REQUIRED":       "The parent category is required",

	// trade
	"ADDRESS_REQUIRED":           "The address is required for delivery",
	"ALREADY_PLACED":             "The order was already placed",
	"BELOW_MINIMUM_ORDER":        "The order is below the minimum amount",
	"BRANCH_UNAVAILABLE":         "The branch is not available",
	"CUSTOMER_NAME_REQUIRED":     "The customer name is required",
	"CUSTOMER_PHONE_REQUIRED":    "The customer phone is required",
	"DISCOUNT_EXCEEDS_TOTAL":     "The discount cannot exceed the total",
	"EMPTY_ORDER":                "The order has no products",
	"EXTRA_UNAVAILABLE":          "The extra is not available",
	"INVALID_DELIVERY_FEE":       "The delivery fee cannot be negative",
	"INVALID_MINIMUM_ORDER":      "The minimum order cannot be negative",
	"INVALID_ORDER_TYPE":         "Invalid order type",
	"INVALID_ORDER_TYPES":        "At least one order type must be enabled",
	"INVALID_PAYMENT_METHOD":     "Invalid payment method",
	"INVALID_PAYMENT_STATUS":     "Invalid payment status",
	"INVALID_PAYMENT_TRANSITION": "Payment status change not allowed",
	"INVALID_QUANTITY":           "The quantity must be between 1 and 99",
	"INVALID_SEQUENCE":           "Invalid order number",
	"INVALID_STATUS":             "Invalid status",
	"INVALID_TAX_RATE":           "The tax rate must be between 0 and 100",
	"INVALID_TRANSITION":         "Status change not allowed",
	"ITEM_NOT_FOUND":             "Product not found in the order",
	"LAST_ITEM":                  "The order must keep at least one product; cancel it instead",
	"ORDER_CANCELLED":            "The order is cancelled",
	"ORDER_NOT_EDITABLE":         "The order can no longer be modified",
	"ORDER_TYPE_NOT_ACCEPTED":    "The restaurant does not accept this order type",
	"PRODUCT_NOT_FOUND":          "Product not found",
	"PRODUCT_UNAVAILABLE":        "The product is not available",
	"STORE_CLOSED":               "The restaurant is not taking orders",
	"TOTAL_MISMATCH":             "The order total does not match its items",

	// finance
	"INVALID_AMOUNT":        "Invalid amount",
	"INVALID_DATE":          "Invalid date",
	"INVALID_DESCRIPTION":   "Invalid description",
	"INVALID_MOVEMENT_TYPE": "Invalid movement type",
	"INVALID_RANGE":         "The start date must be before the end date",
	"MOVEMENT_EXISTS":       "The order already has a movement",
	"MOVEMENT_NOT_FOUND":    "Movement not found",
	"REGISTER_ALREADY_OPEN": "This branch already has an open cash register",
	"REGISTER_CLOSED":       "The cash register is closed",

	// media
	"FILE_REQUIRED":         "No file was received",
	"FILE_TOO_LARGE":        "The file exceeds the maximum allowed size",
	"INVALID_FOLDER":        "Invalid folder",
	"INVALID_URL":           "The URL does not belong to this restaurant",
	"UNSUPPORTED_FILE_TYPE": "File type not allowed. Use JPG, PNG, WEBP or GIF",
	"URL_REQUIRED":          "The URL is required",
}
