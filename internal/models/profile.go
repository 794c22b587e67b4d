package models

type ProfileSetupRequest struct {
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

type ProfileUpdateRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	FullName    *string `json:"full_name"`
}

type OnboardingStatus struct {
	OnboardingComplete bool `json:"onboarding_complete"`
	NeedsProfileSetup  bool `json:"needs_profile_setup"`
}
