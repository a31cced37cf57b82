package poststore

const DEFAULT_STORAGE_KEY = "blogs"
const DEFAULT_THEME_KEY = "theme"

const PLACEHOLDER_IMAGE_URL = "https://via.placeholder.com/400x200?text=New+Blog+Post"

const TRANSIENT_IMAGE_PREFIX = "blob:"

const COLUMN_ID = "id"
const COLUMN_TITLE = "title"
const COLUMN_DESCRIPTION = "description"
const COLUMN_IMAGE_URL = "image_url"
const COLUMN_FULL_CONTENT = "full_content"

const COLUMN_SLOT_KEY = "slot_key"
const COLUMN_SLOT_VALUE = "slot_value"
const COLUMN_UPDATED_AT = "updated_at"
