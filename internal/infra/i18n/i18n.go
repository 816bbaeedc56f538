// Package i18n holds the console's French and English messages.
package i18n

import (
	"fmt"
	"strings"
)

const DefaultLang = "fr"

var messages = map[string]map[string]string{
	"fr": {
		"app_name":                 "Plouf CRM",
		"nav_dashboard":            "Tableau de bord",
		"nav_contacts":             "Contacts",
		"nav_prospects":            "Prospects",
		"nav_profile":              "Profil",
		"nav_logout":               "Déconnexion",
		"signin_title":             "Connexion",
		"signin_username":          "Identifiant",
		"signin_password":          "Mot de passe",
		"signin_submit":            "Se connecter",
		"signin_invalid":           "Identifiant ou mot de passe incorrect.",
		"login_failed":             "Une erreur est survenue lors de la connexion.",
		"login_rate_limit":         "Trop de tentatives de connexion. Réessayez dans une minute.",
		"signup_title":             "Créer un compte",
		"signup_info":              "Les comptes sont créés par un administrateur. Contactez votre responsable pour obtenir un accès.",
		"signup_back":              "Retour à la connexion",
		"dashboard_title":          "Tableau de bord",
		"kpi_total":                "Contacts",
		"kpi_to_contact":           "À contacter",
		"kpi_relances":             "Relances dues",
		"kpi_rdv":                  "RDV à venir",
		"stats_status":             "Répartition par statut",
		"stats_industries":         "Top 10 des secteurs",
		"metrics_unavailable":      "Les indicateurs sont indisponibles.",
		"stats_unavailable":        "Les statistiques sont indisponibles.",
		"contacts_title":           "Contacts",
		"contacts_search":          "Rechercher…",
		"contacts_all_origins":     "Toutes les origines",
		"contacts_all_commercials": "Tous les commerciaux",
		"contacts_filter":          "Filtrer",
		"contacts_empty":           "Aucun contact.",
		"contacts_total":           "contacts",
		"contacts_unavailable":     "Impossible de charger les contacts.",
		"col_name":                 "Nom",
		"col_company":              "Entreprise",
		"col_email":                "Email",
		"col_phone":                "Téléphone",
		"col_status":               "Statut",
		"col_commercial":           "Commercial",
		"col_follow_up":            "Relance",
		"col_last_contact":         "Dernier contact",
		"col_origin":               "Origine",
		"page_prev":                "Précédent",
		"page_next":                "Suivant",
		"page_of":                  "sur",
		"edit_title":               "Modifier le contact",
		"edit_save":                "Enregistrer",
		"edit_cancel":              "Annuler",
		"edit_saved":               "Contact mis à jour.",
		"update_rejected":          "Erreur lors de la mise à jour: %s",
		"update_network":           "Erreur technique ou réseau lors de la mise à jour.",
		"contact_not_loaded":       "Ce contact n'est plus dans la liste affichée.",
		"field_first_name":         "Prénom",
		"field_last_name":          "Nom",
		"field_email":              "Email principal",
		"field_secondary_email":    "Emails secondaires",
		"field_phone":              "Téléphone",
		"field_company":            "Entreprise",
		"field_title":              "Poste",
		"field_website":            "Site web",
		"field_linkedin":           "LinkedIn",
		"field_address":            "Adresse",
		"field_employees":          "Effectif",
		"field_industry":           "Secteur",
		"field_commercial":         "Commercial",
		"field_status":             "Statut",
		"field_origin":             "Origine",
		"field_last_contact":       "Dernier contact",
		"field_follow_up":          "Date de relance",
		"field_comment":            "Commentaire",
		"prospects_title":          "Revue des prospects",
		"prospect_loading":         "Chargement…",
		"prospect_exhausted":       "Aucun prospect trouvé avec email et téléphone.",
		"prospect_load_failed":     "Erreur lors du chargement du prospect.",
		"prospect_save_failed":     "Erreur lors de la sauvegarde",
		"prospect_retry":           "Réessayer",
		"prospect_write":           "Écrire un email",
		"prospect_call":            "Appeler",
		"action_contacted":         "Contacté",
		"action_not_interested":    "Pas intéressé",
		"action_skip":              "Passer",
		"save_in_progress":         "Sauvegarde en cours…",
		"stale_card":               "Ce prospect a déjà été traité.",
		"unknown_action":           "Action inconnue.",
		"profile_title":            "Mon profil",
		"profile_username":         "Identifiant",
		"profile_email":            "Email",
		"profile_full_name":        "Nom complet",
		"profile_role":             "Rôle",
		"profile_save":             "Enregistrer",
		"profile_saved":            "Profil mis à jour.",
		"profile_rejected":         "Le profil n'a pas été enregistré.",
		"profile_unavailable":      "Profil indisponible.",
		"password_title":           "Changer le mot de passe",
		"password_old":             "Mot de passe actuel",
		"password_new":             "Nouveau mot de passe",
		"password_submit":          "Modifier",
		"password_changed":         "Mot de passe modifié.",
		"password_change_failed":   "Le mot de passe n'a pas été modifié.",
		"not_authenticated":        "Vous n'êtes pas connecté.",
		"session_expired":          "Votre session a expiré. Veuillez vous reconnecter.",
		"network_error":            "Erreur réseau. Réessayez plus tard.",
		"error_title":              "Erreur",
		"error_generic":            "Une erreur est survenue.",
		"not_found":                "Page introuvable.",
	},
	"en": {
		"app_name":                 "Plouf CRM",
		"nav_dashboard":            "Dashboard",
		"nav_contacts":             "Contacts",
		"nav_prospects":            "Prospects",
		"nav_profile":              "Profile",
		"nav_logout":               "Log out",
		"signin_title":             "Sign in",
		"signin_username":          "Username",
		"signin_password":          "Password",
		"signin_submit":            "Sign in",
		"signin_invalid":           "Incorrect username or password.",
		"login_failed":             "An error occurred while signing in.",
		"login_rate_limit":         "Too many sign-in attempts. Try again in a minute.",
		"signup_title":             "Create an account",
		"signup_info":              "Accounts are created by an administrator. Ask your manager for access.",
		"signup_back":              "Back to sign in",
		"dashboard_title":          "Dashboard",
		"kpi_total":                "Contacts",
		"kpi_to_contact":           "To contact",
		"kpi_relances":             "Follow-ups due",
		"kpi_rdv":                  "Upcoming meetings",
		"stats_status":             "Status breakdown",
		"stats_industries":         "Top 10 industries",
		"metrics_unavailable":      "Metrics are unavailable.",
		"stats_unavailable":        "Statistics are unavailable.",
		"contacts_title":           "Contacts",
		"contacts_search":          "Search…",
		"contacts_all_origins":     "All origins",
		"contacts_all_commercials": "All sales reps",
		"contacts_filter":          "Filter",
		"contacts_empty":           "No contacts.",
		"contacts_total":           "contacts",
		"contacts_unavailable":     "Contacts could not be loaded.",
		"col_name":                 "Name",
		"col_company":              "Company",
		"col_email":                "Email",
		"col_phone":                "Phone",
		"col_status":               "Status",
		"col_commercial":           "Sales rep",
		"col_follow_up":            "Follow-up",
		"col_last_contact":         "Last contact",
		"col_origin":               "Origin",
		"page_prev":                "Previous",
		"page_next":                "Next",
		"page_of":                  "of",
		"edit_title":               "Edit contact",
		"edit_save":                "Save",
		"edit_cancel":              "Cancel",
		"edit_saved":               "Contact updated.",
		"update_rejected":          "Update failed: %s",
		"update_network":           "Technical or network error during the update.",
		"contact_not_loaded":       "This contact is no longer in the displayed list.",
		"field_first_name":         "First name",
		"field_last_name":          "Last name",
		"field_email":              "Primary email",
		"field_secondary_email":    "Secondary emails",
		"field_phone":              "Phone",
		"field_company":            "Company",
		"field_title":              "Title",
		"field_website":            "Website",
		"field_linkedin":           "LinkedIn",
		"field_address":            "Address",
		"field_employees":          "Employees",
		"field_industry":           "Industry",
		"field_commercial":         "Sales rep",
		"field_status":             "Status",
		"field_origin":             "Origin",
		"field_last_contact":       "Last contact",
		"field_follow_up":          "Follow-up date",
		"field_comment":            "Comment",
		"prospects_title":          "Prospect review",
		"prospect_loading":         "Loading…",
		"prospect_exhausted":       "No prospect found with both email and phone.",
		"prospect_load_failed":     "The prospect could not be loaded.",
		"prospect_save_failed":     "Save failed",
		"prospect_retry":           "Retry",
		"prospect_write":           "Write an email",
		"prospect_call":            "Call",
		"action_contacted":         "Contacted",
		"action_not_interested":    "Not interested",
		"action_skip":              "Skip",
		"save_in_progress":         "Saving…",
		"stale_card":               "This prospect was already handled.",
		"unknown_action":           "Unknown action.",
		"profile_title":            "My profile",
		"profile_username":         "Username",
		"profile_email":            "Email",
		"profile_full_name":        "Full name",
		"profile_role":             "Role",
		"profile_save":             "Save",
		"profile_saved":            "Profile updated.",
		"profile_rejected":         "The profile was not saved.",
		"profile_unavailable":      "Profile unavailable.",
		"password_title":           "Change password",
		"password_old":             "Current password",
		"password_new":             "New password",
		"password_submit":          "Change",
		"password_changed":         "Password changed.",
		"password_change_failed":   "The password was not changed.",
		"not_authenticated":        "You are not signed in.",
		"session_expired":          "Your session expired. Please sign in again.",
		"network_error":            "Network error. Try again later.",
		"error_title":              "Error",
		"error_generic":            "Something went wrong.",
		"not_found":                "Page not found.",
	},
}

// T returns the message for code in lang, falling back to French and then
// to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// Tf formats a message that carries verbs.
func Tf(lang, code string, args ...any) string {
	return fmt.Sprintf(T(lang, code), args...)
}

// DetectLanguage picks "en" when the Accept-Language header starts with an
// English tag, French otherwise.
func DetectLanguage(acceptLanguage string) string {
	first := strings.TrimSpace(strings.Split(acceptLanguage, ",")[0])
	first = strings.ToLower(strings.Split(first, ";")[0])
	if first == "en" || strings.HasPrefix(first, "en-") {
		return "en"
	}
	return DefaultLang
}

// Supported reports whether lang has a catalogue.
func Supported(lang string) bool {
	_, ok := messages[lang]
	return ok
}
